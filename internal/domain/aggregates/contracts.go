package aggregates

// Resource names a table an aggregate locks or modifies.
type Resource string

const (
	ResourceJobs      Resource = "jobs"
	ResourceContracts Resource = "contracts"
	ResourceProfiles  Resource = "profiles"
)

// Contract describes one aggregate write: the op name reported to hooks and spans,
// the tables it row-locks in acquisition order, and the tables it may modify.
type Contract struct {
	Name      string
	Op        string
	LockOrder []Resource
	Writes    []Resource
	// OwnsTx means the aggregate opens and commits its own transaction.
	OwnsTx  bool
	Summary string
}

type Aggregate interface {
	Contract() Contract
}

// LockRank is the position of r in LockOrder, or -1 when r is never locked.
func (c Contract) LockRank(r Resource) int {
	for i, l := range c.LockOrder {
		if l == r {
			return i
		}
	}
	return -1
}

func (c Contract) MayWrite(r Resource) bool {
	for _, w := range c.Writes {
		if w == r {
			return true
		}
	}
	return false
}
