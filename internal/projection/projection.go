// Package projection wraps a fixed source-to-target spatial reference
// transformation built from EPSG authority codes.
package projection

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-proj/v11"
)

// Reprojector transforms planar (x, y) points into geographic
// (longitude, latitude) points. The two reference systems are fixed at
// construction; Transform is a pure function of its inputs.
type Reprojector struct {
	pj         *proj.PJ
	sourceEPSG int
	targetEPSG int
}

// New builds a Reprojector between two EPSG-coded reference systems,
// e.g. 2269 (NAD83 / Oregon North) to 4326 (WGS84).
func New(sourceEPSG, targetEPSG int) (*Reprojector, error) {
	pj, err := proj.NewCRSToCRS(
		fmt.Sprintf("EPSG:%d", sourceEPSG),
		fmt.Sprintf("EPSG:%d", targetEPSG),
		nil,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "projection: create EPSG:%d to EPSG:%d transform", sourceEPSG, targetEPSG)
	}

	// Authority axis order for geographic systems is latitude, longitude;
	// normalize so the transform always speaks (x, y) / (lng, lat).
	pj, err = pj.NormalizeForVisualization()
	if err != nil {
		return nil, eris.Wrapf(err, "projection: normalize EPSG:%d to EPSG:%d transform", sourceEPSG, targetEPSG)
	}

	return &Reprojector{
		pj:         pj,
		sourceEPSG: sourceEPSG,
		targetEPSG: targetEPSG,
	}, nil
}

// Transform converts a single source-system (x, y) point to the target
// system. Axis order of the result is normalized to longitude, latitude.
func (r *Reprojector) Transform(x, y float64) (lng, lat float64, err error) {
	coord, err := r.pj.Forward(proj.NewCoord(x, y, 0, 0))
	if err != nil {
		return 0, 0, eris.Wrapf(err, "projection: transform point (%f, %f)", x, y)
	}
	return coord.X(), coord.Y(), nil
}

// SourceEPSG returns the authority code of the source reference system.
func (r *Reprojector) SourceEPSG() int { return r.sourceEPSG }

// TargetEPSG returns the authority code of the target reference system.
func (r *Reprojector) TargetEPSG() int { return r.targetEPSG }
