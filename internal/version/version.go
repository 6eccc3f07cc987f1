package version

import (
	"fmt"
	"os"
)

const (
	// Name of dnode.
	Name string = "DNode"
	// Version of dnode.
	Version string = "1.0.0"
	// Additional information for dnode
	Additional string = "Have a lot of fun!"
)

// String representation of the dnode version.
func String() string {
	return fmt.Sprintf("%s %v %s", Name, Version, Additional)
}

// Print the version.
func Print() {
	fmt.Println(String())
}

// PrintAndExit prints the program version and exists.
func PrintAndExit() {
	Print()
	os.Exit(0)
}
