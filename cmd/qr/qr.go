// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Qr encodes text given as arguments or on standard input as QR codes.
package main

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/pborman/getopt/v2"
	"golang.org/x/sync/errgroup"

	"github.com/qrkit/qr"
	"github.com/qrkit/qr/coding"
)

var g = struct {
	scale   int             // scale
	border  int             // quiet zone
	palette *[2]color.Color // palette
	rev     bool            // reverse colours
	fn      string          // filename without suffix
	fext    string          // filename suffix
	lev     qr.Level        // QR correction level
	ver     coding.Version  // minimum QR version
	mask    coding.Mask     // mask pattern
	format  int             // output file format
	bg, fg  rgba            // colour
	colSet  bool            // colour set
	latin1  bool            // Latin-1 byte mode
	url     bool            // require URL
	batch   bool            // one code per argument or line
}{
	border: 4,
	bg:     rgba{0xff, 0xff, 0xff, 0xff},
	fg:     rgba{0x00, 0x00, 0x00, 0xff},
}

func printUsage(w io.Writer) {
	cl := getopt.CommandLine
	prog := cl.Program()
	ul := make([]string, 1, 4)
	ul[0] = cl.UsageLine() + " [string ...]"
	ml := max(70-len("Usage: ")-1-len(prog), 0)
	for i := 0; len(ul[i]) > ml; i++ {
		s := ul[i]
		n := ml - 1
		for n > 0 && (s[n] != ' ' || s[n+1] != '[') {
			n--
		}
		ul = append(ul, s[n+1:])
		ul[i] = s[:max(n, 0)]
		ml = 60
	}
	fmt.Fprint(w, "QR code generator\nUsage: ", prog, " ",
		strings.Join(ul, "\n          "), `
If no string is given, data is read from standard input and the final
newline is stripped.  With -b, each argument or input line is encoded
as a separate code.

`)
	var b bytes.Buffer
	cl.PrintOptions(&b)
	bb := b.Bytes()
	if n := bytes.Index(bb, []byte(" [-1]")); n >= 0 {
		w.Write(bb[:n])
		bb = bb[n+len(" [-1]"):]
	}
	w.Write(bb)
}

type opt func()

func (opt) String() string                    { return "" }
func (o opt) Set(string, getopt.Option) error { o(); return nil }

func usage() {
	printUsage(os.Stderr)
	os.Exit(2)
}

func help() {
	printUsage(os.Stdout)
	os.Exit(0)
}

func version() {
	fmt.Println(`qr version 1.0.0
Copyright (c) 2011 The Go Authors
Copyright (c) 2025 Vadim Vygonets`)
	os.Exit(0)
}

var formats = []string{
	"png", "pngi", "pbm", "pbmi", "eps", "epsi",
	"utf8", "utf8i", "ascii", "asciii",
}

const pngFormat = 0

var encoders = [...]func(*qr.Code, io.Writer) error{
	(*qr.Code).EncodePNG,
	(*qr.Code).EncodePBM,
	eps,
	func(c *qr.Code, w io.Writer) error {
		_, err := fmt.Fprint(w, c)
		return err
	},
	ascii,
}

func parseFlags() {
	getopt.SetUsage(usage)
	getopt.Flag(opt(help), 'h', "show this help").SetFlag()
	getopt.Flag(opt(version), 'V', "print version and copyright").SetFlag()
	getopt.FlagLong(&g.bg, "background", 'B', `background colour; see -F`,
		"RGB[A]|name")
	getopt.FlagLong(&g.fg, "foreground", 'F', `foreground colour `+
		`as 3, 4, 6 or 8 hex digits, optionally preceded by "#", `+
		`or SVG colour name; only for types png[i] and eps[i]`,
		"RGB[A]|name")
	getopt.Flag(&g.latin1, '1',
		"convert byte mode text to Latin-1")
	getopt.Flag(&g.url, 'u', "require text to be a URL with "+
		"a scheme and a host")
	getopt.Flag(&g.batch, 'b', `encode each argument, or each line `+
		`of standard input, as a separate code; "-01", "-02" etc. `+
		`is appended to the filename before suffix`)
	getopt.Flag(&g.border, 'm', `quiet zone pixels`, "margin")
	fno := getopt.Flag(&g.fn, 'o', `output file, or "-" for `+
		`standard output; for type png[i], ".png" is appended `+
		`unless present`, "file")
	ver := getopt.Unsigned('v', 1, &getopt.UnsignedLimit{Base: 0, Bits: 8, Min: 1, Max: 40},
		"minimum QR code version", "ver")
	mask := getopt.Signed('k', -1, &getopt.SignedLimit{Base: 0, Bits: 8, Min: -1, Max: 7},
		"mask pattern; chosen by penalty if not given", "mask")
	lev := getopt.Enum('l',
		[]string{"l", "m", "q", "h", "L", "M", "Q", "H"}, "m",
		"error correction level, lowest to highest", "l|m|q|h")
	scale := getopt.Unsigned('s', 10,
		&(getopt.UnsignedLimit{Base: 0, Bits: 28, Min: 1, Max: 1 << 28}),
		`image pixels (type eps[i]: points) per QR module ("pixel"); `+
			`ignored for types utf8[i] and ascii[i]`, "scale")
	ff := getopt.Enum('t', formats, "", `output format, one of: `+
		strings.Join(formats, ", ")+
		`; types with "i" appended have colours inverted; `+
		`if no -o is given and standard output is a TTY, `+
		`default is utf8, otherwise png`, "type")

	getopt.Parse()
	g.scale = int(*scale)
	g.ver = coding.Version(*ver)
	g.mask = coding.Mask(*mask)
	g.lev = qr.Level(strings.Index("lmqhLMQH", *lev) & 3)
	if *ff == "" {
		if !fno.Seen() && isatty.IsTerminal(uintptr(syscall.Stdout)) {
			*ff = "utf8"
		} else {
			*ff = "png"
		}
	}
	for i, v := range formats {
		if *ff == v {
			g.format = i >> 1
			g.rev = i&1 != 0
			break
		}
	}
	if g.fn == "-" {
		g.fn = ""
	}
	if g.fn != "" {
		g.fn, g.fext = splitName(g.fn, g.format == pngFormat)
	}
	if g.colSet {
		g.palette = &[2]color.Color{color.RGBA(g.bg), color.RGBA(g.fg)}
	}
}

// splitName splits fn into name and suffix, supplying ".png" when
// png is set and fn lacks it.
func splitName(fn string, png bool) (string, string) {
	ext := filepath.Ext(fn)
	if png && !strings.EqualFold(ext, ".png") {
		return fn, ".png"
	}
	return fn[:len(fn)-len(ext)], ext
}

// input returns the texts to encode.
func input() []string {
	args := getopt.Args()
	if len(args) == 0 {
		var b strings.Builder
		if _, err := io.Copy(&b, os.Stdin); err != nil {
			log.Fatalln(err)
		}
		s, _ := strings.CutSuffix(
			strings.ReplaceAll(b.String(), "\r\n", "\n"), "\n")
		if g.batch {
			return strings.Split(s, "\n")
		}
		return []string{s}
	}
	if g.batch {
		return args
	}
	return []string{strings.Join(args, " ")}
}

// checkURL returns an error unless s is a URL with a scheme and a host.
func checkURL(s string) error {
	u, err := url.Parse(s)
	if err != nil {
		return err
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%q: not a URL", s)
	}
	return nil
}

func encode(s string) (*qr.Code, error) {
	if g.url {
		if err := checkURL(s); err != nil {
			return nil, err
		}
	}
	opts := []qr.Option{qr.WithMinVersion(g.ver)}
	if g.mask != coding.AutoMask {
		opts = append(opts, qr.WithMask(g.mask))
	}
	if g.latin1 {
		opts = append(opts, qr.WithLatin1())
	}
	return qr.Encode(s, g.lev, opts...)
}

func main() {
	log.SetFlags(0)
	parseFlags()

	texts := input()
	cc := make([]*qr.Code, len(texts))
	var eg errgroup.Group
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, s := range texts {
		i, s := i, s // per-iteration copies (go 1.22 loop semantics)
		eg.Go(func() error {
			c, err := encode(s)
			if err != nil && g.batch {
				err = fmt.Errorf("%d: %w", i+1, err)
			}
			cc[i] = c
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		log.Fatalln(err)
	}
	for i, c := range cc {
		if !g.batch {
			i = -1
		}
		write(i, c)
	}
}
