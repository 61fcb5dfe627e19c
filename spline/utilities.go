package spline

import "math"

const _epsilon = 0.0000001

// cubic holds polynomial coefficients a0 + a1⋅t + a2⋅t² + a3⋅t³.
type cubic [4]float64

// Uniform Catmull-Rom basis, segment between p1 and p2.
func catmullRom(p0, p1, p2, p3 float64) cubic {
	return cubic{
		p1,
		0.5 * (p2 - p0),
		0.5 * (2*p0 - 5*p1 + 4*p2 - p3),
		0.5 * (-p0 + 3*p1 - 3*p2 + p3),
	}
}

func (c cubic) at(t float64) float64 {
	return c[0] + t*(c[1]+t*(c[2]+t*c[3]))
}

func (c cubic) derivAt(t float64) float64 {
	return c[1] + t*(2*c[2]+t*3*c[3])
}

// Minimum and maximum of c over [t0,t1], found at the interval ends or at
// the roots of the derivative.
func (c cubic) extrema(t0, t1 float64) (float64, float64) {
	lo, hi := c.at(t0), c.at(t0)
	consider := func(t float64) {
		if t <= t0 || t >= t1 {
			return
		}
		v := c.at(t)
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	v := c.at(t1)
	lo, hi = math.Min(lo, v), math.Max(hi, v)
	r1, r2, n := quadraticRoots(3*c[3], 2*c[2], c[1])
	if n > 0 {
		consider(r1)
	}
	if n > 1 {
		consider(r2)
	}
	return lo, hi
}

// Real roots of a⋅t² + b⋅t + c = 0. Returns the number of roots found.
func quadraticRoots(a, b, c float64) (float64, float64, int) {
	if math.Abs(a) <= _epsilon {
		if math.Abs(b) <= _epsilon {
			return 0, 0, 0
		}
		return -c / b, 0, 1
	}
	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, 0, 0
	}
	sq := math.Sqrt(disc)
	return (-b - sq) / (2 * a), (-b + sq) / (2 * a), 2
}
