package entity

// Knowledge graph node types.
const (
	NodeCompany       = "Company"
	NodePerson        = "Person"
	NodeOffering      = "Product/Service"
	NodeLocation      = "Location"
	NodeCertification = "Certification"
	NodeTech          = "Tech"
)

// Knowledge graph relationship types.
const (
	EdgeEmploys          = "EMPLOYS"
	EdgeOffers           = "OFFERS"
	EdgeLocatedAt        = "LOCATED_AT"
	EdgeHasCertification = "HAS_CERTIFICATION"
	EdgeUsesTech         = "USES_TECH"
)

// GraphNode is a single node in the company knowledge graph.
type GraphNode struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Label      string         `json:"label"`
	Properties map[string]any `json:"properties"`
}

// GraphEdge connects two nodes with a typed relationship.
type GraphEdge struct {
	Source       string `json:"source"`
	Target       string `json:"target"`
	Relationship string `json:"relationship"`
}

// KnowledgeGraph is the deterministic graph derived from a company profile.
type KnowledgeGraph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}
