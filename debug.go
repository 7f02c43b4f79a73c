package grove

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. Only called when the node's scene is in debug mode.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("grove debug: %s on disposed node %q (ID %d)", op, n.Name, n.ID))
	}
}

// debugCheckTreeDepth warns if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := n.Depth() + 1
	if depth > debugMaxTreeDepth {
		n.scene.logger.WithFields(log.Fields{
			"node":  n.Path(),
			"depth": depth,
		}).Warnf("grove: tree depth exceeds %d", debugMaxTreeDepth)
	}
}

// debugCheckChildCount warns if a node has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		n.scene.logger.WithFields(log.Fields{
			"node":     n.Path(),
			"children": len(n.children),
		}).Warnf("grove: child count exceeds %d", debugMaxChildCount)
	}
}
