package db

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// FileCookieJar is a cookie jar that survives process restarts. This lets the command line client keep the
// refresh cookie set by the backend between invocations.
type FileCookieJar struct {
	path    string
	jar     *cookiejar.Jar
	lock    sync.Mutex
	cookies map[string]map[string]persistedCookie
}

type persistedCookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Path     string    `json:"path,omitempty"`
	Domain   string    `json:"domain,omitempty"`
	Expires  time.Time `json:"expires,omitempty"`
	Secure   bool      `json:"secure,omitempty"`
	HttpOnly bool      `json:"httpOnly,omitempty"`
}

func (p persistedCookie) cookie() *http.Cookie {
	return &http.Cookie{
		Name:     p.Name,
		Value:    p.Value,
		Path:     p.Path,
		Domain:   p.Domain,
		Expires:  p.Expires,
		Secure:   p.Secure,
		HttpOnly: p.HttpOnly,
	}
}

func (p persistedCookie) expired(now time.Time) bool {
	return !p.Expires.IsZero() && p.Expires.Before(now)
}

// NewFileCookieJar loads the cookies saved at path, a missing file results in an empty jar.
func NewFileCookieJar(path string) (*FileCookieJar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	output := FileCookieJar{path: path, jar: jar, cookies: map[string]map[string]persistedCookie{}}
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &output, nil
	}
	if err != nil {
		return nil, err
	}
	if len(raw) > 0 {
		err = json.Unmarshal(raw, &output.cookies)
		if err != nil {
			slog.Info("COOKIE JAR", "message", "ignoring unreadable cookie file", "path", path, "error", err)
			output.cookies = map[string]map[string]persistedCookie{}
		}
	}
	now := time.Now()
	for origin, byName := range output.cookies {
		u, err := url.Parse(origin)
		if err != nil {
			delete(output.cookies, origin)
			continue
		}
		cookies := []*http.Cookie{}
		for name, c := range byName {
			if c.expired(now) {
				delete(byName, name)
				continue
			}
			cookies = append(cookies, c.cookie())
		}
		jar.SetCookies(u, cookies)
	}
	return &output, nil
}

func (f *FileCookieJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	f.jar.SetCookies(u, cookies)
	f.lock.Lock()
	defer f.lock.Unlock()
	origin := (&url.URL{Scheme: u.Scheme, Host: u.Host}).String()
	byName, found := f.cookies[origin]
	if !found {
		byName = map[string]persistedCookie{}
		f.cookies[origin] = byName
	}
	now := time.Now()
	for _, c := range cookies {
		expires := c.Expires
		if c.MaxAge > 0 {
			expires = now.Add(time.Duration(c.MaxAge) * time.Second)
		}
		p := persistedCookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     cookiePath(u, c),
			Domain:   c.Domain,
			Expires:  expires,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
		}
		if c.MaxAge < 0 || p.expired(now) {
			delete(byName, c.Name)
			continue
		}
		byName[c.Name] = p
	}
	err := f.save()
	if err != nil {
		slog.Error("COOKIE JAR", "message", "cannot save cookies", "path", f.path, "error", err)
	}
}

// cookiePath is the path a cookie applies to. Without an explicit path it is the directory of the
// request that set it, as browsers do it.
func cookiePath(u *url.URL, c *http.Cookie) string {
	if strings.HasPrefix(c.Path, "/") {
		return c.Path
	}
	requestPath := u.Path
	if !strings.HasPrefix(requestPath, "/") {
		return "/"
	}
	i := strings.LastIndex(requestPath, "/")
	if i == 0 {
		return "/"
	}
	return requestPath[:i]
}

func (f *FileCookieJar) Cookies(u *url.URL) []*http.Cookie {
	return f.jar.Cookies(u)
}

func (f *FileCookieJar) save() error {
	raw, err := json.MarshalIndent(f.cookies, "", "  ")
	if err != nil {
		return err
	}
	err = os.MkdirAll(filepath.Dir(f.path), 0700)
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, raw, 0600)
}
