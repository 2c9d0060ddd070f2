// Package graph derives a knowledge graph from a company profile. The
// mapping is pure and deterministic: the same profile always yields the
// same nodes, edges, and IDs.
package graph

import (
	"strings"

	"github.com/halcyondata/company-intel/internal/entity"
)

// Build maps the profile onto typed nodes and relationships. Sentinel
// values never become nodes.
func Build(p *entity.CompanyProfile) entity.KnowledgeGraph {
	g := entity.KnowledgeGraph{
		Nodes: []entity.GraphNode{},
		Edges: []entity.GraphEdge{},
	}

	companyID := nodeID("company", p.CompanyName)
	g.Nodes = append(g.Nodes, entity.GraphNode{
		ID:    companyID,
		Type:  entity.NodeCompany,
		Label: p.CompanyName,
		Properties: map[string]any{
			"domain":   p.Domain,
			"industry": p.Industry,
		},
	})

	seen := map[string]struct{}{companyID: {}}
	addNode := func(n entity.GraphNode) bool {
		if _, dup := seen[n.ID]; dup {
			return false
		}
		seen[n.ID] = struct{}{}
		g.Nodes = append(g.Nodes, n)
		return true
	}

	for _, person := range p.PeopleInformation {
		id := nodeID("person", person.PersonName)
		if addNode(entity.GraphNode{
			ID:    id,
			Type:  entity.NodePerson,
			Label: person.PersonName,
			Properties: map[string]any{
				"role":          person.Role,
				"role_category": person.RoleCategory,
			},
		}) {
			g.Edges = append(g.Edges, entity.GraphEdge{Source: companyID, Target: id, Relationship: entity.EdgeEmploys})
		}
	}

	for _, offering := range p.Services {
		id := nodeID(offering.Kind, offering.Name)
		if addNode(entity.GraphNode{
			ID:         id,
			Type:       entity.NodeOffering,
			Label:      offering.Name,
			Properties: map[string]any{"kind": offering.Kind},
		}) {
			g.Edges = append(g.Edges, entity.GraphEdge{Source: companyID, Target: id, Relationship: entity.EdgeOffers})
		}
	}

	for _, loc := range p.Locations {
		label := loc.Address
		if label == entity.NotFound {
			label = loc.City
		}
		if label == entity.NotFound {
			continue
		}
		id := nodeID("location", label)
		if addNode(entity.GraphNode{
			ID:    id,
			Type:  entity.NodeLocation,
			Label: label,
			Properties: map[string]any{
				"type":    loc.Type,
				"city":    loc.City,
				"country": loc.Country,
			},
		}) {
			g.Edges = append(g.Edges, entity.GraphEdge{Source: companyID, Target: id, Relationship: entity.EdgeLocatedAt})
		}
	}

	for _, cert := range p.Certifications {
		id := nodeID("cert", cert.Name)
		if addNode(entity.GraphNode{
			ID:         id,
			Type:       entity.NodeCertification,
			Label:      cert.Name,
			Properties: map[string]any{"issuing_authority": cert.IssuingAuthority},
		}) {
			g.Edges = append(g.Edges, entity.GraphEdge{Source: companyID, Target: id, Relationship: entity.EdgeHasCertification})
		}
	}

	techCategories := []struct {
		category string
		names    []string
	}{
		{"cms", p.TechStackSignals.CMS},
		{"analytics", p.TechStackSignals.Analytics},
		{"frontend", p.TechStackSignals.Frontend},
		{"marketing", p.TechStackSignals.Marketing},
	}
	for _, tc := range techCategories {
		for _, name := range tc.names {
			id := nodeID("tech", name)
			if addNode(entity.GraphNode{
				ID:         id,
				Type:       entity.NodeTech,
				Label:      name,
				Properties: map[string]any{"category": tc.category},
			}) {
				g.Edges = append(g.Edges, entity.GraphEdge{Source: companyID, Target: id, Relationship: entity.EdgeUsesTech})
			}
		}
	}

	return g
}

// nodeID builds stable IDs like "person_jane_smith".
func nodeID(prefix, label string) string {
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteRune('_')
	lastUnderscore := false
	for _, r := range strings.ToLower(label) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteRune('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimRight(b.String(), "_")
}
