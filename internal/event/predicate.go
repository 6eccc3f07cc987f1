package event

import (
	"fmt"
	"strings"
)

// Kind enumerates the events a predicate can describe.
type Kind int

const (
	// KindMiningStarted is the banner printed when the node begins producing blocks.
	KindMiningStarted Kind = iota
	// KindTransactionSealed is a transaction included in a sealed block.
	KindTransactionSealed Kind = iota
	// KindHeartbeat is the recurring liveness line.
	KindHeartbeat Kind = iota
	// KindCustomLine is any line containing a literal text.
	KindCustomLine Kind = iota
)

func (k Kind) String() string {
	switch k {
	case KindMiningStarted:
		return "MiningStarted"
	case KindTransactionSealed:
		return "TransactionSealed"
	case KindHeartbeat:
		return "Heartbeat"
	case KindCustomLine:
		return "CustomLine"
	}

	panic(fmt.Sprintf("Unknown event kind %d", int(k)))
}

// Predicate describes which log line content counts as a match. It is an
// immutable value, the zero value is MiningStarted.
type Predicate struct {
	kind Kind
	hash TxHash
	text string
}

// MiningStarted matches the node's mining banner.
func MiningStarted() Predicate {
	return Predicate{kind: KindMiningStarted}
}

// TransactionSealed matches the line reporting h as sealed.
func TransactionSealed(h TxHash) Predicate {
	return Predicate{kind: KindTransactionSealed, hash: h}
}

// Heartbeat matches any liveness line.
func Heartbeat() Predicate {
	return Predicate{kind: KindHeartbeat}
}

// CustomLine matches any line containing text.
func CustomLine(text string) Predicate {
	return Predicate{kind: KindCustomLine, text: text}
}

// Kind returns the kind of event described.
func (p Predicate) Kind() Kind { return p.kind }

// Hash returns the transaction hash of a TransactionSealed predicate.
func (p Predicate) Hash() TxHash { return p.hash }

// Text returns the literal of a CustomLine predicate.
func (p Predicate) Text() string { return p.text }

// Match reports whether line satisfies the predicate.
func (p Predicate) Match(line string, m Markers) bool {
	switch p.kind {
	case KindMiningStarted:
		return strings.Contains(line, m.MiningBanner)
	case KindTransactionSealed:
		return strings.Contains(line, m.sealed(p.hash))
	case KindHeartbeat:
		return m.Heartbeat.MatchString(line)
	case KindCustomLine:
		return strings.Contains(line, p.text)
	}

	panic(fmt.Sprintf("Unknown event kind %d", int(p.kind)))
}

func (p Predicate) String() string {
	switch p.kind {
	case KindTransactionSealed:
		return fmt.Sprintf("%s(%s)", p.kind, p.hash)
	case KindCustomLine:
		return fmt.Sprintf("%s(%q)", p.kind, p.text)
	default:
		return p.kind.String()
	}
}

// ParsePredicate parses the textual form used on the command line and by the
// HTTP API: "mining", "heartbeat", "sealed:<hash>" or "line:<text>".
func ParsePredicate(s string) (Predicate, error) {
	kv := strings.SplitN(s, ":", 2)

	switch strings.ToLower(kv[0]) {
	case "mining":
		return MiningStarted(), nil
	case "heartbeat":
		return Heartbeat(), nil
	case "sealed":
		if len(kv) != 2 {
			return Predicate{}, fmt.Errorf("missing transaction hash in '%s'", s)
		}
		h, err := ParseTxHash(kv[1])
		if err != nil {
			return Predicate{}, err
		}
		return TransactionSealed(h), nil
	case "line":
		if len(kv) != 2 || kv[1] == "" {
			return Predicate{}, fmt.Errorf("missing line text in '%s'", s)
		}
		return CustomLine(kv[1]), nil
	}

	return Predicate{}, fmt.Errorf("unknown event '%s', must be one of: "+
		"mining, heartbeat, sealed:<hash>, line:<text>", s)
}
