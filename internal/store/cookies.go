package store

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"
)

// CookieJar is an http.CookieJar whose cookies survive restarts. Lookups are served by an
// in-memory net/http/cookiejar; every change is written through to the cookies table.
type CookieJar struct {
	db *sql.DB

	mu  sync.Mutex
	mem *cookiejar.Jar
	now func() time.Time
}

// OpenCookieJar opens the persistent jar. The caller must Close it.
func (s Store) OpenCookieJar(ctx context.Context) (*CookieJar, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	mem, err := cookiejar.New(nil)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	j := &CookieJar{db: db, mem: mem, now: time.Now}
	if err := j.load(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return j, nil
}

func (j *CookieJar) load(ctx context.Context) error {
	nowMS := j.now().UnixMilli()
	if _, err := j.db.ExecContext(ctx, `DELETE FROM cookies WHERE expires_unixms > 0 AND expires_unixms <= ?`, nowMS); err != nil {
		return err
	}
	rows, err := j.db.QueryContext(ctx, `SELECT host, name, path, scheme, value, domain, expires_unixms, secure, http_only FROM cookies`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			host, name, path, scheme, value, domain string
			expires                                 int64
			secure, httpOnly                        int
		)
		if err := rows.Scan(&host, &name, &path, &scheme, &value, &domain, &expires, &secure, &httpOnly); err != nil {
			return err
		}
		c := &http.Cookie{
			Name:     name,
			Value:    value,
			Path:     path,
			Domain:   domain,
			Secure:   secure != 0,
			HttpOnly: httpOnly != 0,
		}
		if expires > 0 {
			c.Expires = time.UnixMilli(expires)
		}
		j.mem.SetCookies(&url.URL{Scheme: scheme, Host: host, Path: path}, []*http.Cookie{c})
	}
	return rows.Err()
}

func (j *CookieJar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.mem.Cookies(u)
}

// SetCookies records cookies from a response. Persistence errors are dropped: the session
// still works for this process.
func (j *CookieJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.mem.SetCookies(u, cookies)
	_ = j.persist(context.Background(), u, cookies)
}

func (j *CookieJar) persist(ctx context.Context, u *url.URL, cookies []*http.Cookie) error {
	now := j.now()
	for _, c := range cookies {
		path := c.Path
		if path == "" || path[0] != '/' {
			path = defaultCookiePath(u)
		}
		expired := c.MaxAge < 0 || (!c.Expires.IsZero() && !c.Expires.After(now))
		if expired {
			if _, err := j.db.ExecContext(ctx, `DELETE FROM cookies WHERE host = ? AND name = ? AND path = ?`, u.Host, c.Name, path); err != nil {
				return err
			}
			continue
		}
		var expires int64
		switch {
		case c.MaxAge > 0:
			expires = now.Add(time.Duration(c.MaxAge) * time.Second).UnixMilli()
		case !c.Expires.IsZero():
			expires = c.Expires.UnixMilli()
		}
		_, err := j.db.ExecContext(ctx, `INSERT OR REPLACE INTO cookies(host, name, path, scheme, value, domain, expires_unixms, secure, http_only)
			VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			u.Host, c.Name, path, u.Scheme, c.Value, c.Domain, expires, boolToInt(c.Secure), boolToInt(c.HttpOnly))
		if err != nil {
			return err
		}
	}
	return nil
}

// defaultCookiePath is the RFC 6265 default-path of u, the scope cookiejar gives a cookie
// set without a Path attribute.
func defaultCookiePath(u *url.URL) string {
	p := u.Path
	if p == "" || p[0] != '/' {
		return "/"
	}
	i := strings.LastIndex(p, "/")
	if i == 0 {
		return "/"
	}
	return p[:i]
}

// Clear forgets every stored cookie (local sign-out).
func (j *CookieJar) Clear(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	mem, err := cookiejar.New(nil)
	if err != nil {
		return err
	}
	j.mem = mem
	_, err = j.db.ExecContext(ctx, `DELETE FROM cookies`)
	return err
}

func (j *CookieJar) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}
