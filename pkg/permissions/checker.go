// Package permissions checks gateway-forwarded permission lists against the
// permission a route requires, with support for wildcards.
//
// Permission Format:
//   - "*" - Full access (all permissions)
//   - "resource.*" - All actions on a resource (e.g., "staffing.*")
//   - "resource.action" - Specific action (e.g., "staffing.read")
//   - "resource.subresource.action" - Nested permission (e.g., "staffing.pools.write")
package permissions

import (
	"encoding/json"
	"strings"
)

// Staffing permissions
const (
	StaffingRead       = "staffing.read"
	StaffingWrite      = "staffing.write"
	StaffingExport     = "staffing.export"
	StaffingPoolsWrite = "staffing.pools.write"
)

// HasPermission checks if the user's permissions include the required permission.
// Supports wildcard matching:
//   - "*" matches everything
//   - "staffing.*" matches "staffing.read", "staffing.pools.write", etc.
//   - Exact match for specific permissions
func HasPermission(userPerms []string, required string) bool {
	if required == "" {
		return true // No permission required
	}

	for _, p := range userPerms {
		if p == "*" {
			return true // Full admin access
		}
		if p == required {
			return true // Exact match
		}
		// Check wildcard patterns like "staffing.*"
		if strings.HasSuffix(p, ".*") {
			prefix := strings.TrimSuffix(p, ".*")
			if strings.HasPrefix(required, prefix+".") {
				return true
			}
		}
	}
	return false
}

// HasAnyPermission checks if the user has any of the required permissions.
func HasAnyPermission(userPerms []string, required []string) bool {
	for _, req := range required {
		if HasPermission(userPerms, req) {
			return true
		}
	}
	return false
}

// ParseHeader decodes the JSON array the gateway forwards in X-User-Permissions.
// A missing or malformed header yields no permissions.
func ParseHeader(raw string) []string {
	if raw == "" {
		return nil
	}
	var perms []string
	if err := json.Unmarshal([]byte(raw), &perms); err != nil {
		return nil
	}
	return perms
}

// StaffingPermissions lists the permissions understood by the staffing service.
var StaffingPermissions = []string{
	StaffingRead,
	StaffingWrite,
	StaffingExport,
	StaffingPoolsWrite,
	"staffing.*",
	"*",
}

// IsValidPermission checks if a permission string is in the known list.
// Allows custom permissions that follow the resource.action pattern.
func IsValidPermission(perm string) bool {
	for _, p := range StaffingPermissions {
		if p == perm {
			return true
		}
	}

	parts := strings.Split(perm, ".")
	return len(parts) >= 2
}
