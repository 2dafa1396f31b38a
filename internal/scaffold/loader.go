package scaffold

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// matrixRoot is the top-level structure of a matrix file. Unknown attributes
// and blocks are decode errors so that typos never silently fall back to a
// default.
type matrixRoot struct {
	Matrix  *matrixBlock  `hcl:"matrix,block"`
	Buckets []bucketBlock `hcl:"bucket,block"`
}

// matrixBlock mirrors Matrix. Pointer fields distinguish "not set" from an
// explicit zero.
type matrixBlock struct {
	NominalPowerW    *float64  `hcl:"nominal_power_w,optional"`
	PowerLevels      []float64 `hcl:"power_levels,optional"`
	LevelStep        *float64  `hcl:"level_step,optional"`
	PreRampS         *float64  `hcl:"pre_ramp_s,optional"`
	PostRampS        *float64  `hcl:"post_ramp_s,optional"`
	PowerRampPerMin  *float64  `hcl:"power_ramp_per_min,optional"`
	RhoRatePcmPerMin *float64  `hcl:"rho_rate_pcm_per_min,optional"`
	RhoBiasPcm       *float64  `hcl:"rho_bias_pcm,optional"`
}

// bucketBlock is one labeled temperature bucket. All four temperatures are
// required. Declaring any bucket replaces the default bucket table
// wholesale.
type bucketBlock struct {
	Name       string  `hcl:"name,label"`
	CoolantC   float64 `hcl:"coolant_c"`
	FuelC      float64 `hcl:"fuel_c"`
	ModeratorC float64 `hcl:"moderator_c"`
	ShellC     float64 `hcl:"shell_c"`
}

// LoadMatrix reads a matrix file and merges it over DefaultMatrix. An empty
// path returns the defaults unchanged.
func LoadMatrix(path string) (*Matrix, error) {
	matrix := DefaultMatrix()
	if path == "" {
		return matrix, nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse matrix file %s: %w", path, diags)
	}

	var root matrixRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode matrix file %s: %w", path, diags)
	}

	if root.Matrix != nil {
		applyMatrixBlock(matrix, root.Matrix)
	}
	if len(root.Buckets) > 0 {
		buckets := make([]Bucket, 0, len(root.Buckets))
		for _, b := range root.Buckets {
			buckets = append(buckets, Bucket{
				Name:       b.Name,
				CoolantC:   b.CoolantC,
				FuelC:      b.FuelC,
				ModeratorC: b.ModeratorC,
				ShellC:     b.ShellC,
			})
		}
		matrix.Buckets = buckets
	}

	if err := matrix.Validate(); err != nil {
		return nil, fmt.Errorf("invalid matrix in %s: %w", path, err)
	}

	return matrix, nil
}

func applyMatrixBlock(m *Matrix, b *matrixBlock) {
	if b.NominalPowerW != nil {
		m.NominalPowerW = *b.NominalPowerW
	}
	if b.PowerLevels != nil {
		m.PowerLevels = b.PowerLevels
	}
	if b.LevelStep != nil {
		m.LevelStep = *b.LevelStep
	}
	if b.PreRampS != nil {
		m.PreRampS = *b.PreRampS
	}
	if b.PostRampS != nil {
		m.PostRampS = *b.PostRampS
	}
	if b.PowerRampPerMin != nil {
		m.PowerRampPerMin = *b.PowerRampPerMin
	}
	if b.RhoRatePcmPerMin != nil {
		m.RhoRatePcmPerMin = *b.RhoRatePcmPerMin
	}
	if b.RhoBiasPcm != nil {
		m.RhoBiasPcm = *b.RhoBiasPcm
	}
}
