// Copyright © 2024 The ELPS authors

// Package descriptor implements the XML-like component descriptor file
// model (spec §4.2, §6). A descriptor names a component, optionally
// extends a parent component, and lists script-tag imports; its grammar
// is parsed with a goparsec combinator grammar (grammar.go) rather than
// encoding/xml because the format is explicitly XML-*like*, not
// well-formed XML.
package descriptor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bsc-analyze/bsc/parser/token"
)

// File is the capability set shared by code files and descriptor files
// (spec §9 Design Note: "Polymorphic file type → capability set").
type File interface {
	PackagePath() string
}

// FileReference is one script-tag import: the package path it names, the
// range of that path string in the importing descriptor, and a
// back-reference to the descriptor that declared it.
type FileReference struct {
	PkgPath       string
	FilePathRange token.Range
	Source        *DescriptorFile
}

// DescriptorFile is a parsed component descriptor (spec §3, §4.2).
type DescriptorFile struct {
	AbsolutePath string
	PkgPath      string

	ComponentName      string
	ComponentNameRange token.Range
	ParentName         string
	ParentNameRange    token.Range

	ScriptTagImports []FileReference

	parent  *DescriptorFile
	emitter *emitter
}

// PackagePath implements File.
func (d *DescriptorFile) PackagePath() string { return d.PkgPath }

// Parse builds a DescriptorFile from raw descriptor text. The first
// opening tag encountered is treated as the root element; its "name" and
// "extends" attributes become ComponentName and ParentName. Every
// "<script uri=\"pkg:/...\">" child anywhere in the document contributes
// a FileReference, with the "pkg:/" prefix stripped per spec §6.
//
// A descriptor with no recognizable root tag is an unrecoverable error
// (spec §7: "corrupt descriptor XML at the level of the root tag").
func Parse(absPath, pkgPath string, src []byte) (*DescriptorFile, error) {
	tags, err := scanTags(src)
	if err != nil {
		return nil, &token.LocationError{Err: err, Loc: &token.Location{File: absPath}}
	}

	df := &DescriptorFile{AbsolutePath: absPath, PkgPath: pkgPath, emitter: newEmitter()}

	var haveRoot bool
	for _, st := range tags {
		if st.tag.closing {
			continue
		}
		if !haveRoot {
			haveRoot = true
			if v, rng, ok := findAttrRange(src, st, "name"); ok {
				df.ComponentName = v
				df.ComponentNameRange = rng
			}
			if v, rng, ok := findAttrRange(src, st, "extends"); ok {
				df.ParentName = v
				df.ParentNameRange = rng
			}
			continue
		}
		if !strings.EqualFold(st.tag.name, "script") {
			continue
		}
		uri, rng, ok := findAttrRange(src, st, "uri")
		if !ok {
			continue
		}
		df.ScriptTagImports = append(df.ScriptTagImports, FileReference{
			PkgPath:       strings.TrimPrefix(uri, "pkg:/"),
			FilePathRange: rng,
			Source:        df,
		})
	}

	if !haveRoot {
		err := fmt.Errorf("descriptor %q has no root element", absPath)
		return nil, &token.LocationError{Err: err, Loc: &token.Location{File: absPath}}
	}
	return df, nil
}

// findAttrRange locates attrName's value inside the tag's source slice
// and converts its byte offsets into a token.Range against the full
// source, so callers get an exact range without the grammar layer having
// to carry terminal-position bookkeeping through every combinator.
func findAttrRange(src []byte, st scannedTag, attrName string) (value string, rng token.Range, ok bool) {
	v, present := st.tag.attrs[strings.ToLower(attrName)]
	if !present {
		return "", token.Range{}, false
	}
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(attrName) + `\s*=\s*["']([^"']*)["']`)
	loc := re.FindSubmatchIndex(src[st.start:st.end])
	if loc == nil {
		return v, token.Range{}, true
	}
	startOff := st.start + loc[2]
	endOff := st.start + loc[3]
	return v, token.Range{Start: positionAt(src, startOff), End: positionAt(src, endOff)}, true
}

func positionAt(src []byte, offset int) token.Position {
	line, col := 1, 1
	for i := 0; i < offset && i < len(src); i++ {
		if src[i] == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return token.Position{Line: line, Col: col}
}

// AttachParent resolves parent as this descriptor's ancestor and emits
// "attach-parent" — spec §4.2.
func (d *DescriptorFile) AttachParent(parent *DescriptorFile) {
	d.parent = parent
	d.emitter.emit(eventAttachParent, parent)
}

// DetachParent clears the resolved ancestor and emits "detach-parent".
func (d *DescriptorFile) DetachParent() {
	prev := d.parent
	d.parent = nil
	d.emitter.emit(eventDetachParent, prev)
}

// Parent returns the resolved ancestor descriptor, or nil.
func (d *DescriptorFile) Parent() *DescriptorFile { return d.parent }

// OnAttachParent subscribes to this descriptor's "attach-parent" event.
func (d *DescriptorFile) OnAttachParent(fn func(*DescriptorFile)) Unsubscribe {
	return d.emitter.on(eventAttachParent, fn)
}

// OnDetachParent subscribes to this descriptor's "detach-parent" event.
func (d *DescriptorFile) OnDetachParent(fn func(*DescriptorFile)) Unsubscribe {
	return d.emitter.on(eventDetachParent, fn)
}

// GetAncestorScriptTagImports concatenates the script imports of every
// transitive resolved parent, furthest ancestor first (spec §4.2).
func (d *DescriptorFile) GetAncestorScriptTagImports() []FileReference {
	if d.parent == nil {
		return nil
	}
	return append(d.parent.GetAncestorScriptTagImports(), d.parent.ScriptTagImports...)
}

// DoesReferenceFile reports whether file is this descriptor itself, or
// whether file's package path matches a script import of this descriptor
// or any of its transitive ancestors (spec §4.2).
func (d *DescriptorFile) DoesReferenceFile(file File) bool {
	if fd, ok := file.(*DescriptorFile); ok && fd == d {
		return true
	}
	target := strings.ToLower(file.PackagePath())
	for _, ref := range d.ScriptTagImports {
		if strings.ToLower(ref.PkgPath) == target {
			return true
		}
	}
	for _, ref := range d.GetAncestorScriptTagImports() {
		if strings.ToLower(ref.PkgPath) == target {
			return true
		}
	}
	return false
}
