package main

import (
	"fmt"
	"io"
	"math"

	"github.com/ytget/ytfetch/internal/model"
)

// printer writes events as lines, collapsing progress to whole-percent steps
type printer struct {
	w        io.Writer
	lastStep int
}

func (p *printer) print(ev model.Event) {
	switch e := ev.(type) {
	case model.Progress:
		step := int(math.Floor(e.Percent))
		if step == p.lastStep {
			return
		}
		p.lastStep = step
		fmt.Fprintf(p.w, "[%3d%%]\n", step)
	case model.Status:
		fmt.Fprintln(p.w, e.Text)
	case model.ResolutionsFound:
		fmt.Fprintf(p.w, "%s\n", e.Title)
		for _, label := range e.Labels {
			fmt.Fprintf(p.w, "  %s\n", label)
		}
	case model.Error:
		p.lastStep = 0
		fmt.Fprintf(p.w, "Error (%s): %s\n", e.Kind, e.Message)
	case model.Done:
		p.lastStep = 0
		fmt.Fprintf(p.w, "Saved: %s\n", e.Path)
	}
}
