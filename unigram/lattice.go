package unigram

import (
	"math"

	"github.com/subpiece/subpiece/mathutil"
)

type latticeNode struct {
	id     int // piece id in the model, or a reserved-token id
	nodeID int // index into Lattice.nodes
	pos    int // rune offset into the sentence
	length int // length in runes

	score          float64
	backtraceScore float64
	prev           *latticeNode
}

// Lattice is a segmentation lattice over a single word: a directed graph
// whose edges are candidate pieces spanning rune positions. It supports the
// two queries the trainer needs: the marginal per-piece usage expectation
// (with the log-partition value) and the single best segmentation.
type Lattice struct {
	sentence []rune
	nodes    []*latticeNode

	// beginNodes[pos] holds nodes starting at pos; beginNodes[len] holds EOS.
	// endNodes[pos] holds nodes ending at pos; endNodes[0] holds BOS.
	beginNodes [][]*latticeNode
	endNodes   [][]*latticeNode

	bosID int
	eosID int
	unkID int
}

// NewLattice creates an empty lattice over sentence with BOS/EOS boundary
// nodes carrying the given reserved-token ids. Piece nodes are added via
// Insert, normally by Model.PopulateNodes.
func NewLattice(sentence string, bosID, eosID, unkID int) *Lattice {
	runes := []rune(sentence)
	n := len(runes)
	l := &Lattice{
		sentence:   runes,
		beginNodes: make([][]*latticeNode, n+1),
		endNodes:   make([][]*latticeNode, n+1),
		bosID:      bosID,
		eosID:      eosID,
		unkID:      unkID,
	}

	bos := l.newNode(l.bosID, 0, 0, 0)
	eos := l.newNode(l.eosID, n, 0, 0)
	l.endNodes[0] = append(l.endNodes[0], bos)
	l.beginNodes[n] = append(l.beginNodes[n], eos)
	return l
}

func (l *Lattice) newNode(id, pos, length int, score float64) *latticeNode {
	node := &latticeNode{
		id:     id,
		nodeID: len(l.nodes),
		pos:    pos,
		length: length,
		score:  score,
	}
	l.nodes = append(l.nodes, node)
	return node
}

// Len returns the sentence length in runes.
func (l *Lattice) Len() int {
	return len(l.sentence)
}

// Insert adds a piece node spanning [pos, pos+length) runes.
func (l *Lattice) Insert(pos, length int, score float64, id int) {
	node := l.newNode(id, pos, length, score)
	l.beginNodes[pos] = append(l.beginNodes[pos], node)
	l.endNodes[pos+length] = append(l.endNodes[pos+length], node)
}

// PopulateMarginal runs the forward/backward pass over the lattice and adds
// freq-weighted marginal usage probabilities into expected, indexed by piece
// id. It returns the frequency-weighted log-partition value freq*ln(Z); a
// NaN return signals numeric breakdown and must be treated as fatal by the
// caller.
func (l *Lattice) PopulateMarginal(freq float64, expected []float64) float64 {
	n := len(l.sentence)
	alpha := make([]float64, len(l.nodes))
	beta := make([]float64, len(l.nodes))

	for pos := 0; pos <= n; pos++ {
		for _, rnode := range l.beginNodes[pos] {
			for i, lnode := range l.endNodes[pos] {
				alpha[rnode.nodeID] = mathutil.LogSumExp(alpha[rnode.nodeID],
					lnode.score+alpha[lnode.nodeID], i == 0)
			}
		}
	}
	for pos := n; pos >= 0; pos-- {
		for _, lnode := range l.endNodes[pos] {
			for i, rnode := range l.beginNodes[pos] {
				beta[lnode.nodeID] = mathutil.LogSumExp(beta[lnode.nodeID],
					rnode.score+beta[rnode.nodeID], i == 0)
			}
		}
	}

	z := alpha[l.beginNodes[n][0].nodeID]
	for pos := 0; pos < n; pos++ {
		for _, node := range l.beginNodes[pos] {
			if node.id >= len(expected) {
				// tiny vocabularies where the unknown id exceeds the piece list
				continue
			}
			total := alpha[node.nodeID] + node.score + beta[node.nodeID] - z
			expected[node.id] += freq * math.Exp(total)
		}
	}
	return freq * z
}

// Viterbi returns the pieces of the best-scoring segmentation, or nil if the
// sentence admits no segmentation.
func (l *Lattice) Viterbi() []string {
	n := len(l.sentence)
	for pos := 0; pos <= n; pos++ {
		for _, rnode := range l.beginNodes[pos] {
			rnode.prev = nil
			best := math.Inf(-1)
			var bestNode *latticeNode
			for _, lnode := range l.endNodes[pos] {
				score := lnode.backtraceScore + rnode.score
				if bestNode == nil || score > best {
					best = score
					bestNode = lnode
				}
			}
			if bestNode == nil {
				return nil
			}
			rnode.prev = bestNode
			rnode.backtraceScore = best
		}
	}

	var results []string
	for node := l.beginNodes[n][0].prev; node.prev != nil; node = node.prev {
		results = append(results, string(l.sentence[node.pos:node.pos+node.length]))
	}
	for i, j := 0, len(results)-1; i < j; i, j = i+1, j-1 {
		results[i], results[j] = results[j], results[i]
	}
	return results
}
