package helpers

import "strings"

// ContributeRoles lists the LOMv1.0 lifecycle contribute roles.
var ContributeRoles = []string{
	"author",
	"publisher",
	"unknown",
	"initiator",
	"terminator",
	"validator",
	"editor",
	"graphical designer",
	"technical implementer",
	"content provider",
	"technical validator",
	"educational validator",
	"script writer",
	"instructional designer",
	"subject matter expert",
}

// MetaContributeRoles lists the roles allowed in metametadata.contribute.
var MetaContributeRoles = []string{"creator", "validator"}

// dataciteContributorTypes maps LOM roles onto the DataCite contributorType
// vocabulary. Roles without a counterpart fall back to "Other".
var dataciteContributorTypes = map[string]string{
	"editor":                 "Editor",
	"initiator":              "ProjectLeader",
	"terminator":             "ProjectManager",
	"validator":              "Supervisor",
	"graphical designer":     "Producer",
	"technical implementer":  "Producer",
	"content provider":       "DataCollector",
	"technical validator":    "Supervisor",
	"educational validator":  "Supervisor",
	"script writer":          "Researcher",
	"instructional designer": "ProjectMember",
	"subject matter expert":  "Researcher",
	"creator":                "DataCurator",
}

// aliases accepts common spellings seen in imported data.
var aliases = map[string]string{
	"authors":               "author",
	"graphicaldesigner":     "graphical designer",
	"technicalimplementer":  "technical implementer",
	"contentprovider":       "content provider",
	"technicalvalidator":    "technical validator",
	"educationalvalidator":  "educational validator",
	"scriptwriter":          "script writer",
	"instructionaldesigner": "instructional designer",
	"subjectmatterexpert":   "subject matter expert",
}

// NormalizeRole lower-cases role and resolves known aliases. Unknown roles
// are returned lower-cased and trimmed.
func NormalizeRole(role string) string {
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		return ""
	}
	role = strings.Join(strings.Fields(role), " ")
	if canonical, ok := aliases[role]; ok {
		return canonical
	}
	if canonical, ok := aliases[strings.ReplaceAll(role, " ", "")]; ok {
		return canonical
	}
	return role
}

// IsContributeRole reports whether role is one of the LOMv1.0 lifecycle roles.
func IsContributeRole(role string) bool {
	return contains(ContributeRoles, NormalizeRole(role))
}

// IsMetaContributeRole reports whether role is valid in metametadata.
func IsMetaContributeRole(role string) bool {
	return contains(MetaContributeRoles, NormalizeRole(role))
}

// DataCiteContributorType returns the DataCite contributorType for a LOM role.
func DataCiteContributorType(role string) string {
	if t, ok := dataciteContributorTypes[NormalizeRole(role)]; ok {
		return t
	}
	return "Other"
}

// RoleLabel returns a display label, e.g. "subject matter expert" becomes
// "Subject Matter Expert".
func RoleLabel(role string) string {
	words := strings.Fields(NormalizeRole(role))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
