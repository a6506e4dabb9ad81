// Package audit lists the explicit precision relaxations of checked units.
package audit

import (
	"sort"

	"approxc/internal/buildpipeline"
	"approxc/internal/driver"
	"approxc/internal/qual"
)

// Site is one ENDORSE/DEDORSE occurrence.
type Site struct {
	File      string `json:"file" yaml:"file"`
	Line      uint32 `json:"line" yaml:"line"`
	Col       uint32 `json:"col" yaml:"col"`
	Func      string `json:"func,omitempty" yaml:"func,omitempty"`
	Direction string `json:"direction" yaml:"direction"`
	Sentinel  uint32 `json:"sentinel" yaml:"sentinel"`
	ID        uint32 `json:"id" yaml:"id"`
	Operand   string `json:"operand" yaml:"operand"`
	Redundant bool   `json:"redundant,omitempty" yaml:"redundant,omitempty"`
	// Instr is the index of the marker instruction inside the lowered
	// function, -1 when the unit was not lowered.
	Instr int `json:"instr" yaml:"instr"`
}

// Unit groups the sites of one translation unit.
type Unit struct {
	File     string `json:"file" yaml:"file"`
	Accepted bool   `json:"accepted" yaml:"accepted"`
	// Skipped is set when the checker did not run (syntax or load errors).
	Skipped bool   `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Sites   []Site `json:"sites" yaml:"sites"`
}

// Report is the audit of a whole run.
type Report struct {
	Units   []Unit `json:"units" yaml:"units"`
	Total   int    `json:"total" yaml:"total"`
	Endorse int    `json:"endorse" yaml:"endorse"`
	Dedorse int    `json:"dedorse" yaml:"dedorse"`
}

// Collect builds the report from a check run. Units restored from the
// disk cache carry no marker list and are reported as skipped.
func Collect(res *driver.CheckResult, baseDir string) Report {
	var rep Report
	for _, u := range res.Units {
		unit := Unit{File: buildpipeline.DisplayPath(u.Path, baseDir), Accepted: u.Accepted()}
		if u.Sema == nil {
			unit.Skipped = true
			unit.Sites = []Site{}
			rep.Units = append(rep.Units, unit)
			continue
		}
		instrs := map[uint32]int{}
		if u.Module != nil {
			for _, ref := range u.Module.Markers {
				instrs[ref.ID] = ref.Instr
			}
		}
		unit.Sites = make([]Site, 0, len(u.Sema.Markers))
		for _, m := range u.Sema.Markers {
			start, _ := res.FileSet.Resolve(m.Span)
			id := uint32(m.ID)
			site := Site{
				File:      unit.File,
				Line:      start.Line,
				Col:       start.Col,
				Func:      m.Func,
				Direction: m.Direction.String(),
				Sentinel:  m.Sentinel,
				ID:        id,
				Operand:   u.Sema.TypeInterner.Format(m.Operand),
				Redundant: m.Redundant,
				Instr:     -1,
			}
			if idx, ok := instrs[id]; ok {
				site.Instr = idx
			}
			unit.Sites = append(unit.Sites, site)
			rep.Total++
			if m.Direction == qual.Dedorse {
				rep.Dedorse++
			} else {
				rep.Endorse++
			}
		}
		sort.SliceStable(unit.Sites, func(i, j int) bool { return unit.Sites[i].ID < unit.Sites[j].ID })
		rep.Units = append(rep.Units, unit)
	}
	return rep
}
