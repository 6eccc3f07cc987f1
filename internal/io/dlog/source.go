package dlog

type source int

const (
	HARNESS source = iota
	NODE    source = iota
)

func (s source) String() string {
	switch s {
	case HARNESS:
		return "HARNESS"
	case NODE:
		return "NODE"
	}

	panic("Unknown log source type")
}
