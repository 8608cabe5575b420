package reconcile

import (
	"net/url"
	"strconv"
	"strings"
)

// DefaultBranch is the sentinel used in project keys when the source
// object leaves scm_branch empty (the repository default branch).
const DefaultBranch = "(default)"

// NormalizeSCMURL canonicalizes an SCM URL for comparison:
//
//   - scheme and host are lower-cased, path case is preserved
//   - default ports are dropped (http:80, https:443)
//   - a trailing ".git" and trailing slashes are stripped from the path
//
// Different schemes deliberately do NOT normalize to each other:
// "https://host/repo" and "git://host/repo" are distinct keys. URLs
// without a scheme (scp-style "git@host:repo.git") keep their spelling
// apart from the ".git"/slash stripping.
func NormalizeSCMURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		// Not an absolute URL; strip suffixes only.
		return strings.TrimRight(strings.TrimSuffix(raw, ".git"), "/")
	}

	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	if port := u.Port(); port != "" && !isDefaultPort(scheme, port) {
		host += ":" + port
	}

	path := strings.TrimSuffix(u.Path, ".git")
	path = strings.TrimRight(path, "/")

	return scheme + "://" + host + path
}

func isDefaultPort(scheme, port string) bool {
	return (scheme == "https" && port == "443") || (scheme == "http" && port == "80")
}

// ProjectKey pairs the normalized SCM URL with the branch. Callers must
// pass a non-empty URL; adapters report a missing scm_url as a
// NormalizationError before reaching here.
func ProjectKey(scmURL, branch string) Key {
	branch = strings.TrimSpace(branch)
	if branch == "" {
		branch = DefaultBranch
	}
	return Key(NormalizeSCMURL(scmURL) + "@" + branch)
}

// NameOrgKey pairs a case-sensitive object name with the numeric
// organization ID. Organization display names are never part of a key
// since they can collide across differently-cased inputs.
func NameOrgKey(name string, orgID int) Key {
	return Key(name + "|org:" + strconv.Itoa(orgID))
}

// ScheduleKey scopes a schedule name under its owning template's key.
func ScheduleKey(templateKey Key, scheduleName string) Key {
	return templateKey + Key("|sched:"+scheduleName)
}
