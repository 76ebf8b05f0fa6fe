package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMat4InverseRoundTrip(t *testing.T) {
	m := Translate4(NewVec3(1, 2, 3)).Mul(RotateY4(math.Pi / 3)).Mul(Scale4(NewVec3(2, 1, 0.5)))
	inv := m.Inverse()
	product := m.Mul(inv)
	id := Identity4()
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			assert.InDelta(t, id[i][j], product[i][j], 1e-9)
		}
	}
}

func TestMat4MulPoint(t *testing.T) {
	m := Translate4(NewVec3(1, 2, 3))
	p := m.MulPoint(NewVec3(0, 0, 0))
	assert.True(t, p.Equals(NewVec3(1, 2, 3)))
}

func TestMat4MulVectorIgnoresTranslation(t *testing.T) {
	m := Translate4(NewVec3(10, 10, 10))
	v := m.MulVector(NewVec3(1, 0, 0))
	assert.True(t, v.Equals(NewVec3(1, 0, 0)))
}

func TestMat4SingularInverseFallsBackToIdentity(t *testing.T) {
	singular := Mat4{
		{1, 2, 3, 0},
		{2, 4, 6, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 1},
	}
	assert.Equal(t, Identity4(), singular.Inverse())
}
