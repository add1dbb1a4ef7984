package apidoc

import (
	"bufio"
	"io"
)

// blockGap is the number of blank lines between two rendered blocks.
const blockGap = 3

// Document accumulates rendered blocks in route order.
type Document struct {
	blocks [][]string
}

// Add appends a rendered block. Empty blocks are ignored.
func (d *Document) Add(block []string) {
	if len(block) == 0 {
		return
	}
	d.blocks = append(d.blocks, block)
}

// Len returns the number of blocks.
func (d *Document) Len() int {
	return len(d.blocks)
}

// Lines returns the document lines with blockGap blank lines between blocks.
func (d *Document) Lines() []string {
	var lines []string
	for i, block := range d.blocks {
		if i > 0 {
			for j := 0; j < blockGap; j++ {
				lines = append(lines, "")
			}
		}
		lines = append(lines, block...)
	}
	return lines
}

// WriteTo writes every line followed by a space and a newline, the layout
// consumers of the generated files expect.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for _, line := range d.Lines() {
		written, err := bw.WriteString(line + " \n")
		n += int64(written)
		if err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}

// Append adds the blocks of other after those of d.
func (d *Document) Append(other *Document) {
	if other == nil {
		return
	}
	d.blocks = append(d.blocks, other.blocks...)
}
