package domain

import (
	"errors"
	"fmt"

	"k8s.io/apimachinery/pkg/util/validation"
)

// DefaultNamespace is the key all usage is attributed to when a single
// namespace is queried.
const DefaultNamespace = "default"

var (
	ErrNoScope          = errors.New("either a namespace or all namespaces must be selected")
	ErrConflictingScope = errors.New("namespace and all namespaces are mutually exclusive")
)

// Mode selects which pods the metrics command reports on.
type Mode struct {
	Namespace     string
	AllNamespaces bool
}

func AllNamespaces() Mode { return Mode{AllNamespaces: true} }

func InNamespace(ns string) Mode { return Mode{Namespace: ns} }

// MinFields is the number of table columns a row needs to be usable.
func (m Mode) MinFields() int {
	if m.AllNamespaces {
		return 4
	}
	return 3
}

func (m Mode) Validate() error {
	switch {
	case m.AllNamespaces && m.Namespace != "":
		return ErrConflictingScope
	case !m.AllNamespaces && m.Namespace == "":
		return ErrNoScope
	}
	if m.Namespace != "" {
		if errs := validation.IsDNS1123Label(m.Namespace); len(errs) > 0 {
			return fmt.Errorf("invalid namespace %q: %s", m.Namespace, errs[0])
		}
	}
	return nil
}

func (m Mode) String() string {
	if m.AllNamespaces {
		return "all-namespaces"
	}
	return "namespace=" + m.Namespace
}

type Usage struct {
	CPUMillicores   int64 // 1/1000 core
	MemoryMebibytes int64 // MiB
}

func (u *Usage) Add(o Usage) {
	u.CPUMillicores += o.CPUMillicores
	u.MemoryMebibytes += o.MemoryMebibytes
}

func (u Usage) Cores() float64 { return float64(u.CPUMillicores) / 1000 }

func (u Usage) GiB() float64 { return float64(u.MemoryMebibytes) / 1024 }

// NamespaceUsage maps namespace -> accumulated usage, keeping keys in the
// order they were first seen. The zero value is ready to use.
type NamespaceUsage struct {
	order []string
	byNS  map[string]*Usage
}

// GetOrCreate returns the accumulator for ns, inserting a zeroed one if the
// namespace has not been seen yet.
func (n *NamespaceUsage) GetOrCreate(ns string) *Usage {
	if n.byNS == nil {
		n.byNS = make(map[string]*Usage)
	}
	if u, ok := n.byNS[ns]; ok {
		return u
	}
	u := &Usage{}
	n.byNS[ns] = u
	n.order = append(n.order, ns)
	return u
}

func (n *NamespaceUsage) Get(ns string) (Usage, bool) {
	u, ok := n.byNS[ns]
	if !ok {
		return Usage{}, false
	}
	return *u, true
}

// Names returns namespaces in first-seen order.
func (n *NamespaceUsage) Names() []string {
	out := make([]string, len(n.order))
	copy(out, n.order)
	return out
}

func (n *NamespaceUsage) Len() int { return len(n.order) }

func (n *NamespaceUsage) Sum() Usage {
	var total Usage
	for _, ns := range n.order {
		total.Add(*n.byNS[ns])
	}
	return total
}

// Summary is the outcome of one aggregation pass.
type Summary struct {
	Namespaces NamespaceUsage
	Totals     Usage
}
