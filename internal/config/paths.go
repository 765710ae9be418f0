package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// expandPath expands environment variables ($VAR, ${VAR} and, on Windows,
// %VAR%) and a leading ~ in data and log paths.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	p = os.ExpandEnv(p)
	if runtime.GOOS == "windows" {
		p = expandPercentVars(p)
	}
	return expandHome(p)
}

func expandHome(p string) string {
	isHome := p == "~" || strings.HasPrefix(p, "~/") ||
		(runtime.GOOS == "windows" && strings.HasPrefix(p, `~\`))
	if !isHome {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if p == "~" {
		return home
	}
	return filepath.Join(home, p[2:])
}

// expandPercentVars replaces %VAR% with its value. Unknown variables and
// unpaired percent signs are kept as written.
func expandPercentVars(p string) string {
	var b strings.Builder
	for {
		start := strings.IndexByte(p, '%')
		if start < 0 {
			break
		}
		end := strings.IndexByte(p[start+1:], '%')
		if end < 0 {
			break
		}
		b.WriteString(p[:start])
		name := p[start+1 : start+1+end]
		if name == "" {
			b.WriteByte('%')
			p = p[start+1:]
			continue
		}
		if val, ok := os.LookupEnv(name); ok {
			b.WriteString(val)
		} else {
			b.WriteString("%" + name + "%")
		}
		p = p[start+2+end:]
	}
	b.WriteString(p)
	return b.String()
}
