package namespace

import (
	"fmt"

	"cloudshelf/internal/models"
)

// Rewrite is one pending path update for a descendant record.
type Rewrite struct {
	NodeID  string `json:"node_id"`
	OldPath string `json:"old_path"`
	NewPath string `json:"new_path"`
}

// Plan is the explicit batch of descendant path rewrites produced when a
// folder is renamed or moved. The backing store has no multi-record
// transaction primitive, so a plan is applied write-by-write and the caller
// records which writes landed (see Outcome).
type Plan struct {
	OldLocation string    `json:"old_location"`
	NewLocation string    `json:"new_location"`
	Rewrites    []Rewrite `json:"rewrites"`
}

// RenamePlan computes the rewrites for renaming folder to newName. The
// folder's own record only changes its name; every node within the folder's
// old location has that location prefix swapped, byte-for-byte preserving
// the suffix. subtree must hold the nodes whose Path is within the folder's
// current location.
func RenamePlan(folder *models.Node, newName string, subtree []models.Node) Plan {
	return buildPlan(folder.Location(), Join(folder.Path, newName), subtree)
}

// MovePlan computes the rewrites for re-parenting folder under newParent.
func MovePlan(folder *models.Node, newParent string, subtree []models.Node) Plan {
	return buildPlan(folder.Location(), Join(newParent, folder.Name), subtree)
}

func buildPlan(oldLoc, newLoc string, subtree []models.Node) Plan {
	plan := Plan{OldLocation: oldLoc, NewLocation: newLoc}
	if oldLoc == newLoc {
		return plan
	}
	for _, n := range subtree {
		if !Within(n.Path, oldLoc) {
			continue
		}
		plan.Rewrites = append(plan.Rewrites, Rewrite{
			NodeID:  n.ID,
			OldPath: n.Path,
			NewPath: newLoc + n.Path[len(oldLoc):],
		})
	}
	return plan
}

// WriteFailure records a single failed write of a batch application.
type WriteFailure struct {
	NodeID string `json:"node_id"`
	Reason string `json:"reason"`
}

// Outcome records how far a non-atomic batch got. A partial outcome leaves
// the namespace inconsistent; applied writes are never rolled back, so the
// failed subset is reported for the caller to retry.
type Outcome struct {
	Applied []string       `json:"applied"`
	Failed  []WriteFailure `json:"failed,omitempty"`
}

func (o *Outcome) Record(nodeID string, err error) {
	if err != nil {
		o.Failed = append(o.Failed, WriteFailure{NodeID: nodeID, Reason: err.Error()})
		return
	}
	o.Applied = append(o.Applied, nodeID)
}

func (o *Outcome) Partial() bool {
	return len(o.Failed) > 0
}

// Err summarizes a partial outcome as a single error, nil when every write
// applied.
func (o *Outcome) Err() error {
	if !o.Partial() {
		return nil
	}
	return fmt.Errorf("%d of %d writes failed, first: node %s: %s",
		len(o.Failed), len(o.Failed)+len(o.Applied), o.Failed[0].NodeID, o.Failed[0].Reason)
}
