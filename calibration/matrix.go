package calibration

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// IntrinsicMatrix is a 3x3 pinhole camera matrix in row-major order.
type IntrinsicMatrix [3][3]float64

// At returns the element at row r and column c.
func (m IntrinsicMatrix) At(r, c int) float64 {
	return m[r][c]
}

// Dense copies the matrix into a new gonum matrix.
func (m IntrinsicMatrix) Dense() *mat.Dense {
	cameraMatrix := mat.NewDense(3, 3, nil)
	for r, row := range m {
		cameraMatrix.SetRow(r, row[:])
	}
	return cameraMatrix
}

func (m IntrinsicMatrix) String() string {
	var sb strings.Builder
	sb.WriteString("{\n")
	for _, row := range m {
		fmt.Fprintf(&sb, "    { %v, %v, %v },\n", row[0], row[1], row[2])
	}
	sb.WriteString("}")
	return sb.String()
}

// DistortionCoefficients are the Brown-Conrady coefficients in [k1, k2, p1, p2, k3] order.
type DistortionCoefficients [5]float64

// K1 returns the first radial coefficient.
func (d DistortionCoefficients) K1() float64 { return d[0] }

// K2 returns the second radial coefficient.
func (d DistortionCoefficients) K2() float64 { return d[1] }

// P1 returns the first tangential coefficient.
func (d DistortionCoefficients) P1() float64 { return d[2] }

// P2 returns the second tangential coefficient.
func (d DistortionCoefficients) P2() float64 { return d[3] }

// K3 returns the third radial coefficient.
func (d DistortionCoefficients) K3() float64 { return d[4] }

// Slice returns the coefficients as a new slice.
func (d DistortionCoefficients) Slice() []float64 {
	return d[:]
}

// Dense copies the coefficients into a new 1x5 gonum matrix.
func (d DistortionCoefficients) Dense() *mat.Dense {
	return mat.NewDense(1, len(d), d.Slice())
}

// Equal reports whether both coefficient vectors match, treating NaN as equal to NaN.
func (d DistortionCoefficients) Equal(other DistortionCoefficients) bool {
	for i := range d {
		if !sameFloat(d[i], other[i]) {
			return false
		}
	}
	return true
}

func (d DistortionCoefficients) String() string {
	return fmt.Sprintf("{ %v, %v, %v, %v, %v }", d[0], d[1], d[2], d[3], d[4])
}
