package service

import "fmt"

// maxTag is the largest discriminator a username can carry.
const maxTag = 9999

// nextTag returns the lowest free four-digit tag given those already taken
// by users sharing a username. ok is false when all maxTag tags are used.
func nextTag(taken []string) (tag string, ok bool) {
	used := make(map[string]struct{}, len(taken))
	for _, t := range taken {
		used[t] = struct{}{}
	}
	for i := 1; i <= maxTag; i++ {
		candidate := fmt.Sprintf("%04d", i)
		if _, exists := used[candidate]; !exists {
			return candidate, true
		}
	}
	return "", false
}
