// Package locate finds the parts and measures of a normalized score tree.
package locate

import (
	"strings"

	"github.com/jsphweid/scoreline/extract"
	"github.com/jsphweid/scoreline/tree"
)

type Variant string

const (
	Partwise Variant = "partwise"
	Timewise Variant = "timewise"
)

const (
	partwiseKey = "score-partwise"
	timewiseKey = "score-timewise"
)

// Part is one resolved part with its measures in document order.
type Part struct {
	ID       string
	Measures []tree.Node
}

// PartMeasure is a measure subtree tagged with the part it came from.
type PartMeasure struct {
	PartID string
	Node   tree.Node
}

// ScoreVariant returns which score layout the document uses, or "" when
// neither top-level element carries content.
func ScoreVariant(root tree.Node) Variant {
	if !isEmpty(root.Child(partwiseKey)) {
		return Partwise
	}
	if !isEmpty(root.Child(timewiseKey)) {
		return Timewise
	}
	return ""
}

// DocumentVersion is the version of the xml declaration.
func DocumentVersion(root tree.Node) string {
	return root.Child(tree.DeclarationKey).Attr("version")
}

// ScoreVersion is the MusicXML version attribute of the score element.
func ScoreVersion(root tree.Node) string {
	if v := root.Child(partwiseKey).Attr("version"); v != "" {
		return v
	}
	return root.Child(timewiseKey).Attr("version")
}

func Title(root tree.Node) string {
	score := scoreNode(root)
	if t := score.Child("work").Text("work-title"); t != "" {
		return t
	}
	return score.Text("movement-title")
}

// FindParts returns every part of the score. Timewise scores are
// transposed so each part lists its own measures.
func FindParts(root tree.Node) []Part {
	switch ScoreVariant(root) {
	case Partwise:
		return partwiseParts(root.Child(partwiseKey))
	case Timewise:
		return timewiseParts(root.Child(timewiseKey))
	}
	return nil
}

// PitchedOnly keeps the parts whose first measure declares a G or F clef.
// Percussion and tablature parts fall out.
func PitchedOnly(parts []Part) []Part {
	var res []Part
	for _, p := range parts {
		if len(p.Measures) == 0 {
			continue
		}
		if len(extract.Staffs(p.Measures[0])) > 0 {
			res = append(res, p)
		}
	}
	return res
}

// Measures flattens parts into one list in document order.
func Measures(parts []Part) []PartMeasure {
	var res []PartMeasure
	for _, p := range parts {
		for _, m := range p.Measures {
			res = append(res, PartMeasure{PartID: p.ID, Node: m})
		}
	}
	return res
}

func partwiseParts(score tree.Node) []Part {
	var res []Part
	for _, p := range score.Nodes("part") {
		res = append(res, Part{ID: p.Attr("id"), Measures: p.Nodes("measure")})
	}
	return res
}

func timewiseParts(score tree.Node) []Part {
	var res []Part
	index := make(map[string]int)

	for _, m := range score.Nodes("measure") {
		for _, p := range m.Nodes("part") {
			id := p.Attr("id")
			i, ok := index[id]
			if !ok {
				i = len(res)
				index[id] = i
				res = append(res, Part{ID: id})
			}
			res[i].Measures = append(res[i].Measures, asMeasure(m, p))
		}
	}
	return res
}

// asMeasure builds a partwise-shaped measure from a timewise part entry,
// carrying over the measure's own attributes.
func asMeasure(measure, part tree.Node) tree.Node {
	res := tree.Node{}
	for k, v := range part {
		if k == tree.AttrPrefix+"id" {
			continue
		}
		res[k] = v
	}
	for k, v := range measure {
		if strings.HasPrefix(k, tree.AttrPrefix) {
			res[k] = v
		}
	}
	return res
}

func scoreNode(root tree.Node) tree.Node {
	if s := root.Child(partwiseKey); !isEmpty(s) {
		return s
	}
	return root.Child(timewiseKey)
}

func isEmpty(n tree.Node) bool {
	if len(n) == 0 {
		return true
	}
	return len(n) == 1 && n.OwnText() == "" && n[tree.TextKey] != nil
}
