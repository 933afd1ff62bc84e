// Package rules evaluates requirement lists.
package rules

import "github.com/nathoo/rewardcore/types"

// EvalAll returns true if all requirements hold (AND logic), otherwise the
// reason of the first one that does not. An empty list is vacuously true.
func EvalAll(reqs []types.Requirement) (bool, string) {
	for _, r := range reqs {
		if ok, reason := r.Evaluate(); !ok {
			return false, reason
		}
	}
	return true, ""
}

// Failures returns the reason of every top-level requirement that does not
// hold, in order. Requirements failing without a reason are reported by kind.
func Failures(reqs []types.Requirement) []string {
	var out []string
	for _, r := range reqs {
		if ok, reason := r.Evaluate(); !ok {
			if reason == "" {
				reason = r.Kind() + " not met"
			}
			out = append(out, reason)
		}
	}
	return out
}

// Eligible returns the indexes of the choices whose requirements all hold.
func Eligible(choices []types.ChoiceEntry) []int {
	var idx []int
	for i, c := range choices {
		if ok, _ := EvalAll(c.Requirements); ok {
			idx = append(idx, i)
		}
	}
	return idx
}
