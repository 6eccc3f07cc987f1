package loggers

import (
	"fmt"
	"strings"
	"sync"
)

type Impl int

const (
	NONE   Impl = iota
	STDOUT Impl = iota
	FILE   Impl = iota
	FOUT   Impl = iota
)

// NewImpl returns the logger implementation by its configured name.
func NewImpl(name string) Impl {
	switch strings.ToLower(name) {
	case "none":
		return NONE
	case "file":
		return FILE
	case "fout":
		return FOUT
	case "", "stdout":
		return STDOUT
	}
	panic(fmt.Sprintf("Unknown logger %s, must be one of: none, stdout, file, fout", name))
}

var factoryMap map[string]Logger
var factoryMutex sync.Mutex

// Factory returns the logger for the given name, implementation and
// strategy. Loggers with equal parameters are shared.
func Factory(name string, impl Impl, strategy Strategy) Logger {
	factoryMutex.Lock()
	defer factoryMutex.Unlock()

	id := fmt.Sprintf("name:%s,fileBase:%s,impl:%v", name, strategy.FileBase, impl)

	if factoryMap == nil {
		factoryMap = make(map[string]Logger)
	}

	singleton, ok := factoryMap[id]
	if !ok {
		switch impl {
		case NONE:
			singleton = none{}
		case STDOUT:
			singleton = newStdout()
			factoryMap[id] = singleton
		case FILE:
			singleton = newFile(strategy)
			factoryMap[id] = singleton
		case FOUT:
			singleton = newFout(strategy)
			factoryMap[id] = singleton
		}
	}

	return singleton
}

// FactoryRotate tells all created loggers to reopen their files.
func FactoryRotate() {
	factoryMutex.Lock()
	defer factoryMutex.Unlock()
	if factoryMap == nil {
		return
	}

	for _, impl := range factoryMap {
		impl.Rotate()
	}
}
