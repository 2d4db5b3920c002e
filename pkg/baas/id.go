package baas

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// UniqueID returns a new document or file id. Ids are 32 lowercase hex
// characters, which fits the BaaS id charset and length limit.
func UniqueID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Permission strings understood by the BaaS document and file ACLs.

// ReadAny lets anyone, including guests, read the resource
func ReadAny() string { return `read("any")` }

// ReadUsers lets any signed-in user read the resource
func ReadUsers() string { return `read("users")` }

// ReadUser lets a single user read the resource
func ReadUser(userID string) string { return `read("user:` + userID + `")` }

// UpdateUser lets a single user update the resource
func UpdateUser(userID string) string { return `update("user:` + userID + `")` }

// DeleteUser lets a single user delete the resource
func DeleteUser(userID string) string { return `delete("user:` + userID + `")` }

// OwnedBy is the usual ACL for user content: public read, owner write.
func OwnedBy(userID string) []string {
	return []string{ReadAny(), UpdateUser(userID), DeleteUser(userID)}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// UpdateUsers lets any signed-in user update the resource
func UpdateUsers() string { return `update("users")` }
