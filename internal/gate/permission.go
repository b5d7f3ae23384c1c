package gate

import "strings"

// Permission is "resource:action", e.g. "business:create".
type Permission string

const (
	// Wildcard stands for any resource or any action.
	Wildcard = "*"
	// PermissionSuperAdmin grants everything.
	PermissionSuperAdmin Permission = "*:*"
)

// NewPermission joins a resource type and an action.
func NewPermission(resourceType string, action Action) Permission {
	return Permission(resourceType + ":" + string(action))
}

// Parse splits p; malformed permissions return empty parts.
func (p Permission) Parse() (resourceType string, action Action) {
	res, act, ok := strings.Cut(string(p), ":")
	if !ok || res == "" || act == "" {
		return "", ""
	}
	return res, Action(act)
}

// Matches reports whether p grants requested. A "*" on either side of p
// matches any resource or action.
func (p Permission) Matches(requested Permission) bool {
	if p == requested {
		return true
	}
	res, act := p.Parse()
	reqRes, reqAct := requested.Parse()
	if res == "" || reqRes == "" {
		return false
	}
	return (res == Wildcard || res == reqRes) && (string(act) == Wildcard || act == reqAct)
}
