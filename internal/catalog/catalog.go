package catalog

import (
	"sort"
	"strings"
)

// Subject groups the topics studygen knows how to suggest. The catalog is
// advisory: any free-form topic can still be generated, this is just what
// the subjects command and the session browser list.
type Subject struct {
	Name   string
	Topics []string
}

var subjects = []Subject{
	{
		Name: "physics",
		Topics: []string{
			"Ohm's Law",
			"Newton's Laws of Motion",
			"Conservation of Energy",
			"Wave Interference",
			"Thermodynamics",
		},
	},
	{
		Name: "mathematics",
		Topics: []string{
			"The Pythagorean Theorem",
			"Derivatives",
			"Probability Distributions",
			"Linear Algebra",
			"Modular Arithmetic",
		},
	},
	{
		Name: "computer-science",
		Topics: []string{
			"Big-O Notation",
			"Hash Tables",
			"Recursion",
			"TCP/IP",
			"Public-Key Cryptography",
		},
	},
	{
		Name: "chemistry",
		Topics: []string{
			"The Periodic Table",
			"Chemical Bonding",
			"Acids and Bases",
			"Redox Reactions",
		},
	},
}

// Subjects returns all subjects, sorted by name.
func Subjects() []Subject {
	out := make([]Subject, len(subjects))
	copy(out, subjects)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Topics returns the topics for a subject, or nil when the subject is
// unknown. Matching is case-insensitive; topics are returned verbatim.
func Topics(subject string) []string {
	for _, s := range subjects {
		if strings.EqualFold(s.Name, subject) {
			topics := make([]string, len(s.Topics))
			copy(topics, s.Topics)
			return topics
		}
	}
	return nil
}
