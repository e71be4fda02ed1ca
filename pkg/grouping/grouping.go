// Package grouping buckets owned tokens by the contract that minted them.
package grouping

import (
	"strings"

	"tableflip.dev/curate/pkg/token"
)

// UnknownContract titles groups whose contract has no name.
const UnknownContract = "Unknown Contract"

// Group is a run of tokens sharing a contract.
type Group struct {
	ContractID string
	Title      string
	Tokens     []token.Token
}

// ByContract groups tokens by ContractID. The first token seen for a contract
// fixes the group's position; tokens keep their input order within a group.
// Duplicate token ids are passed through.
func ByContract(tokens []token.Token) []Group {
	groups := make([]Group, 0)
	index := make(map[string]int)
	for _, t := range tokens {
		i, ok := index[t.ContractID]
		if !ok {
			i = len(groups)
			index[t.ContractID] = i
			groups = append(groups, Group{
				ContractID: t.ContractID,
				Title:      title(t.ContractName),
			})
		} else if groups[i].Title == UnknownContract {
			// A later token may carry the name the first one lacked.
			groups[i].Title = title(t.ContractName)
		}
		groups[i].Tokens = append(groups[i].Tokens, t)
	}
	return groups
}

func title(name string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	return UnknownContract
}

// Filter keeps tokens whose name, id, or group title contains query, case
// insensitively. A title match keeps the whole group. Empty groups are
// dropped; an empty query returns groups unchanged.
func Filter(groups []Group, query string) []Group {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return groups
	}
	out := make([]Group, 0, len(groups))
	for _, g := range groups {
		if strings.Contains(strings.ToLower(g.Title), q) {
			out = append(out, g)
			continue
		}
		var kept []token.Token
		for _, t := range g.Tokens {
			if strings.Contains(strings.ToLower(t.Name), q) || strings.Contains(strings.ToLower(t.ID), q) {
				kept = append(kept, t)
			}
		}
		if len(kept) == 0 {
			continue
		}
		out = append(out, Group{ContractID: g.ContractID, Title: g.Title, Tokens: kept})
	}
	return out
}

// Count returns the total number of tokens across groups.
func Count(groups []Group) int {
	n := 0
	for _, g := range groups {
		n += len(g.Tokens)
	}
	return n
}
