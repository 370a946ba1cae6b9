// SPDX-License-Identifier: MPL-2.0

package listing

import (
	"os/user"
	"strconv"
)

type (
	// IdentityLookup maps numeric owner and group ids to names.
	// ok is false when the host has no identity database or no matching record.
	IdentityLookup interface {
		UserName(uid uint32) (name string, ok bool)
		GroupName(gid uint32) (name string, ok bool)
	}

	// hostIdentity resolves ids through the operating system's user database.
	hostIdentity struct{}

	// numericIdentity never resolves a name.
	numericIdentity struct{}
)

// HostIdentity returns the identity lookup for the current platform. Platforms
// without POSIX owner ids get a lookup that always falls back to numbers.
func HostIdentity() IdentityLookup {
	if !identitySupported {
		return numericIdentity{}
	}
	return hostIdentity{}
}

// NumericIdentity returns a lookup that never resolves names.
func NumericIdentity() IdentityLookup { return numericIdentity{} }

func (hostIdentity) UserName(uid uint32) (string, bool) {
	u, err := user.LookupId(strconv.FormatUint(uint64(uid), 10))
	if err != nil || u.Username == "" {
		return "", false
	}
	return u.Username, true
}

func (hostIdentity) GroupName(gid uint32) (string, bool) {
	g, err := user.LookupGroupId(strconv.FormatUint(uint64(gid), 10))
	if err != nil || g.Name == "" {
		return "", false
	}
	return g.Name, true
}

func (numericIdentity) UserName(uint32) (string, bool)  { return "", false }
func (numericIdentity) GroupName(uint32) (string, bool) { return "", false }

// ownerName returns the user name for uid or its decimal form.
func ownerName(ids IdentityLookup, uid uint32) string {
	if name, ok := ids.UserName(uid); ok {
		return name
	}
	return strconv.FormatUint(uint64(uid), 10)
}

// groupName returns the group name for gid or its decimal form.
func groupName(ids IdentityLookup, gid uint32) string {
	if name, ok := ids.GroupName(gid); ok {
		return name
	}
	return strconv.FormatUint(uint64(gid), 10)
}
