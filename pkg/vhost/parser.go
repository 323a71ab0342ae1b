package vhost

import (
	"bufio"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrNoServerBlock is returned by Parse when the text never opens a server block.
var ErrNoServerBlock = errors.New("no server block found")

// maxLineSize bounds a single configuration line.
const maxLineSize = 1024 * 1024

var (
	serverOpenRe = regexp.MustCompile(`^server(\s*\{)?\s*$`)
	listenRe     = regexp.MustCompile(`^listen\s+(\d+)(\s[^;]*)?;`)
	serverNameRe = regexp.MustCompile(`^server_name\s+([^;]+);`)
	locationRe   = regexp.MustCompile(`^location\s+/\s*\{`)
	headerRe     = regexp.MustCompile(`^proxy_set_header\s+(\S+)\s+([^;]+);`)
)

// locationDirective binds a single-value proxy directive to its field.
type locationDirective struct {
	re  *regexp.Regexp
	set func(loc *LocationConfig, value string)
}

func valueDirective(name string, set func(loc *LocationConfig, value string)) locationDirective {
	return locationDirective{
		re:  regexp.MustCompile(`^` + name + `\s+([^;]+);`),
		set: set,
	}
}

// Checked in order, first match wins.
var locationDirectives = []locationDirective{
	valueDirective("proxy_pass", func(loc *LocationConfig, v string) { loc.ProxyPass = v }),
	valueDirective("proxy_no_cache", func(loc *LocationConfig, v string) { loc.ProxyNoCache = v }),
	valueDirective("proxy_cache_bypass", func(loc *LocationConfig, v string) { loc.ProxyCacheBypass = v }),
	valueDirective("proxy_connect_timeout", func(loc *LocationConfig, v string) { loc.ProxyConnectTimeout = v }),
	valueDirective("proxy_read_timeout", func(loc *LocationConfig, v string) { loc.ProxyReadTimeout = v }),
}

// Parse reads nginx virtual host text and returns its server blocks in file order.
//
// The parser is line oriented. A `server` or `server {` line opens a new
// block; closing braces are not tracked, so every recognized directive up to
// the next `server` line belongs to the current block, and all proxy
// directives land in the block's single location. Unrecognized lines are
// skipped. ErrNoServerBlock is returned when no block was opened.
func Parse(raw string) ([]ServerBlock, error) {
	scanner := bufio.NewScanner(strings.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var blocks []ServerBlock
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if serverOpenRe.MatchString(line) {
			blocks = append(blocks, newServerBlock())
			continue
		}
		if len(blocks) == 0 {
			continue // outside any server block
		}

		parseDirective(&blocks[len(blocks)-1], line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading line %d: %w", lineNumber+1, err)
	}

	if len(blocks) == 0 {
		return nil, ErrNoServerBlock
	}
	return blocks, nil
}

// parseDirective applies one trimmed line to block; unrecognized lines are ignored.
func parseDirective(block *ServerBlock, line string) {
	if m := listenRe.FindStringSubmatch(line); m != nil {
		port, err := strconv.Atoi(m[1])
		if err != nil {
			// only reachable for values overflowing int
			return
		}
		block.ListenPort = &port
		return
	}

	if m := serverNameRe.FindStringSubmatch(line); m != nil {
		block.ServerNames = strings.Fields(m[1])
		return
	}

	if locationRe.MatchString(line) {
		return
	}

	for _, d := range locationDirectives {
		if m := d.re.FindStringSubmatch(line); m != nil {
			d.set(&block.Location, strings.TrimSpace(m[1]))
			return
		}
	}

	if m := headerRe.FindStringSubmatch(line); m != nil {
		block.Location.ProxySetHeaders[m[1]] = strings.TrimSpace(m[2])
	}
}
