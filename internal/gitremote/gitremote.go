// Package gitremote derives "org/repo" names from git remotes.
//
// The parsing functions are pure and take remote URLs as input; only List and
// Detect touch a real repository.
package gitremote

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"strings"
)

// ErrNoGitRemote is returned when no remote yields an org/repo name.
var ErrNoGitRemote = errors.New("no git remote with an org/repo path found")

// Remote is one named remote of a repository.
type Remote struct {
	Name string
	URL  string
}

// Swapped out in tests.
var gitOutput = func(dir string, args ...string) ([]byte, error) {
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, msg)
		}
		return nil, fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return out, nil
}

// OrgRepo extracts "org/repo" from a remote URL.
//
// Accepted forms are scp-like ("git@host:org/repo.git") and URLs with the
// ssh, https, http or git scheme. The ".git" suffix is dropped and the last two
// path segments are used, so nested groups ("group/sub/repo") yield "sub/repo".
func OrgRepo(rawURL string) (string, bool) {
	s := strings.TrimSpace(rawURL)
	if s == "" {
		return "", false
	}

	var path string
	if strings.Contains(s, "://") {
		u, err := url.Parse(s)
		if err != nil {
			return "", false
		}
		switch u.Scheme {
		case "ssh", "git+ssh", "https", "http", "git":
		default:
			return "", false
		}
		path = u.Path
	} else {
		// scp-like syntax needs a colon before the first slash.
		colon := strings.IndexByte(s, ':')
		if colon <= 0 {
			return "", false
		}
		if slash := strings.IndexByte(s, '/'); slash >= 0 && slash < colon {
			return "", false
		}
		path = s[colon+1:]
	}

	path = strings.Trim(path, "/")
	path = strings.TrimSuffix(path, ".git")

	var segs []string
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			segs = append(segs, seg)
		}
	}
	if len(segs) < 2 {
		return "", false
	}
	return segs[len(segs)-2] + "/" + segs[len(segs)-1], true
}

// FromRemotes picks the org/repo name of "origin" when it parses, otherwise
// that of the first remote that does.
func FromRemotes(remotes []Remote) (string, error) {
	for _, r := range remotes {
		if r.Name != "origin" {
			continue
		}
		if name, ok := OrgRepo(r.URL); ok {
			return name, nil
		}
	}
	for _, r := range remotes {
		if name, ok := OrgRepo(r.URL); ok {
			return name, nil
		}
	}
	return "", ErrNoGitRemote
}

// ParseRemoteV parses the output of `git remote -v`. Each remote appears once,
// with its fetch URL when both fetch and push are listed, in output order.
func ParseRemoteV(output string) []Remote {
	var remotes []Remote
	index := make(map[string]int)

	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		name, u := fields[0], fields[1]
		kind := ""
		if len(fields) > 2 {
			kind = fields[2]
		}

		if i, ok := index[name]; ok {
			if kind == "(fetch)" {
				remotes[i].URL = u
			}
			continue
		}
		index[name] = len(remotes)
		remotes = append(remotes, Remote{Name: name, URL: u})
	}
	return remotes
}

// List returns the remotes of the repository containing dir.
func List(dir string) ([]Remote, error) {
	out, err := gitOutput(dir, "remote", "-v")
	if err != nil {
		return nil, err
	}
	return ParseRemoteV(string(out)), nil
}

// Detect returns the org/repo name for the repository containing dir. Any
// failure, including dir not being a repository, wraps ErrNoGitRemote.
func Detect(dir string) (string, error) {
	remotes, err := List(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoGitRemote, err)
	}
	return FromRemotes(remotes)
}
