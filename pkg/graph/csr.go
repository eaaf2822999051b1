package graph

// CSR is a compressed-sparse-row export of a graph in the METIS array
// contract: the neighbors of node u are AdjNcy[XAdj[u]:XAdj[u+1]].
type CSR struct {
	N      int
	XAdj   []int
	AdjNcy []int
	VWgt   []int
	AdjWgt []float64
}

// ExportCSR returns a fresh CSR copy of the topology and weights. The copy
// shares nothing with g and may be discarded after use.
func (g *Graph) ExportCSR() CSR {
	csr := CSR{
		N:      g.NumNodes,
		XAdj:   make([]int, g.NumNodes+1),
		AdjNcy: make([]int, 0, g.numEdges),
		VWgt:   make([]int, g.NumNodes),
		AdjWgt: make([]float64, 0, g.numEdges),
	}
	copy(csr.VWgt, g.NodeWeights)
	for u := 0; u < g.NumNodes; u++ {
		csr.XAdj[u] = len(csr.AdjNcy)
		csr.AdjNcy = append(csr.AdjNcy, g.Adjacency[u]...)
		csr.AdjWgt = append(csr.AdjWgt, g.Weights[u]...)
	}
	csr.XAdj[g.NumNodes] = len(csr.AdjNcy)
	return csr
}

// NumEdges returns the number of directed edge records in the export.
func (c CSR) NumEdges() int {
	return len(c.AdjNcy)
}
