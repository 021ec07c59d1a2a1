package reedsshepp

import (
	"math"

	"go.viam.com/robotalgo/motionplan/dubins"
	"go.viam.com/robotalgo/utils"
)

const (
	// Slack allowed on the sign conditions of the word formulas.
	signTolerance = 1e-10
	// Largest endpoint error, in unit-radius lengths and radians, for a candidate to be kept.
	reachTolerance = 1e-6
)

const (
	left     = dubins.Left
	straight = dubins.Straight
	right    = dubins.Right
)

// solver returns the base segment lengths of a word for the goal (x, y, phi) in the unit-radius
// start frame.
type solver func(x, y, phi float64) (t, u, v float64, ok bool)

type family struct {
	solve solver
	kinds []dubins.SegmentKind
	// The word is solved backwards, from the goal to the start.
	backwards bool
	params    func(t, u, v float64) []float64
}

func tuv(t, u, v float64) []float64 { return []float64{t, u, v} }

var families = []family{
	// CSC
	{solve: lpSpLp, kinds: []dubins.SegmentKind{left, straight, left}, params: tuv},
	{solve: lpSpRp, kinds: []dubins.SegmentKind{left, straight, right}, params: tuv},
	// C|C|C
	{solve: lpRmL, kinds: []dubins.SegmentKind{left, right, left}, params: tuv},
	{
		solve: lpRmL, kinds: []dubins.SegmentKind{left, right, left}, backwards: true,
		params: func(t, u, v float64) []float64 { return []float64{v, u, t} },
	},
	// CC|CC and C|CC|C
	{
		solve: lpRupLumRm, kinds: []dubins.SegmentKind{left, right, left, right},
		params: func(t, u, v float64) []float64 { return []float64{t, u, -u, v} },
	},
	{
		solve: lpRumLumRp, kinds: []dubins.SegmentKind{left, right, left, right},
		params: func(t, u, v float64) []float64 { return []float64{t, u, u, v} },
	},
	// C|C[pi/2]SC and its reverse
	{
		solve: lpRmSmLm, kinds: []dubins.SegmentKind{left, right, straight, left},
		params: func(t, u, v float64) []float64 { return []float64{t, -math.Pi / 2, u, v} },
	},
	{
		solve: lpRmSmRm, kinds: []dubins.SegmentKind{left, right, straight, right},
		params: func(t, u, v float64) []float64 { return []float64{t, -math.Pi / 2, u, v} },
	},
	{
		solve: lpRmSmLm, kinds: []dubins.SegmentKind{left, straight, right, left}, backwards: true,
		params: func(t, u, v float64) []float64 { return []float64{v, u, -math.Pi / 2, t} },
	},
	{
		solve: lpRmSmRm, kinds: []dubins.SegmentKind{right, straight, right, left}, backwards: true,
		params: func(t, u, v float64) []float64 { return []float64{v, u, -math.Pi / 2, t} },
	},
	// C|C[pi/2]SC[pi/2]|C
	{
		solve: lpRmSLmRp, kinds: []dubins.SegmentKind{left, right, straight, left, right},
		params: func(t, u, v float64) []float64 { return []float64{t, -math.Pi / 2, u, -math.Pi / 2, v} },
	},
}

type candidate struct {
	kinds  []dubins.SegmentKind
	params []float64
}

// reaches reports whether driving the candidate from the origin lands on goal.
func (c candidate) reaches(goal dubins.Pose) bool {
	var pose dubins.Pose
	for i, kind := range c.kinds {
		pose = kind.Advance(pose, c.params[i], 1)
	}
	return math.Abs(pose.Point.X-goal.Point.X) < reachTolerance &&
		math.Abs(pose.Point.Y-goal.Point.Y) < reachTolerance &&
		math.Abs(math.Remainder(pose.Heading-goal.Heading, 2*math.Pi)) < reachTolerance
}

// candidates evaluates every family at the goal (x, y, phi) along with its timeflip (drive the
// word in reverse), reflection (swap left and right), and both.
func candidates(x, y, phi float64) []candidate {
	sin, cos := math.Sincos(phi)
	xb, yb := x*cos+y*sin, x*sin-y*cos

	var out []candidate
	for _, f := range families {
		fx, fy := x, y
		if f.backwards {
			fx, fy = xb, yb
		}
		variants := []struct {
			x, y, phi           float64
			timeflip, reflected bool
		}{
			{fx, fy, phi, false, false},
			{-fx, fy, -phi, true, false},
			{fx, -fy, -phi, false, true},
			{-fx, -fy, phi, true, true},
		}
		for _, v := range variants {
			t, u, w, ok := f.solve(v.x, v.y, v.phi)
			if !ok {
				continue
			}
			c := candidate{kinds: append([]dubins.SegmentKind{}, f.kinds...), params: f.params(t, u, w)}
			if v.timeflip {
				for i := range c.params {
					c.params[i] = -c.params[i]
				}
			}
			if v.reflected {
				for i, kind := range c.kinds {
					c.kinds[i] = reflect(kind)
				}
			}
			out = append(out, c)
		}
	}
	return out
}

func reflect(kind dubins.SegmentKind) dubins.SegmentKind {
	switch kind {
	case left:
		return right
	case right:
		return left
	}
	return kind
}

// mod2pi maps an angle onto [-π, π].
func mod2pi(angle float64) float64 {
	v := math.Mod(angle, 2*math.Pi)
	if v < -math.Pi {
		v += 2 * math.Pi
	} else if v > math.Pi {
		v -= 2 * math.Pi
	}
	return v
}

func polar(x, y float64) (r, theta float64) {
	return math.Hypot(x, y), math.Atan2(y, x)
}

func tauOmega(u, v, xi, eta, phi float64) (tau, omega float64) {
	delta := mod2pi(u - v)
	a := math.Sin(u) - math.Sin(delta)
	b := math.Cos(u) - math.Cos(delta) - 1
	t1 := math.Atan2(eta*a-xi*b, xi*a+eta*b)
	t2 := 2*(math.Cos(delta)-math.Cos(v)-math.Cos(u)) + 3
	if t2 < 0 {
		tau = mod2pi(t1 + math.Pi)
	} else {
		tau = mod2pi(t1)
	}
	return tau, mod2pi(tau - u + v - phi)
}

// L+S+L+
func lpSpLp(x, y, phi float64) (t, u, v float64, ok bool) {
	u, t = polar(x-math.Sin(phi), y-1+math.Cos(phi))
	if t < -signTolerance {
		return 0, 0, 0, false
	}
	v = mod2pi(phi - t)
	return t, u, v, v >= -signTolerance
}

// L+S+R+
func lpSpRp(x, y, phi float64) (t, u, v float64, ok bool) {
	u1, t1 := polar(x+math.Sin(phi), y-1-math.Cos(phi))
	if utils.Square(u1) < 4 {
		return 0, 0, 0, false
	}
	u = math.Sqrt(utils.Square(u1) - 4)
	t = mod2pi(t1 + math.Atan2(2, u))
	v = mod2pi(t - phi)
	return t, u, v, t >= -signTolerance && v >= -signTolerance
}

// L+R-L
func lpRmL(x, y, phi float64) (t, u, v float64, ok bool) {
	u1, theta := polar(x-math.Sin(phi), y-1+math.Cos(phi))
	if u1 > 4 {
		return 0, 0, 0, false
	}
	u = -2 * math.Asin(u1/4)
	t = mod2pi(theta + u/2 + math.Pi)
	v = mod2pi(phi - t + u)
	return t, u, v, t >= -signTolerance && u <= signTolerance
}

// L+R+L-R-
func lpRupLumRm(x, y, phi float64) (t, u, v float64, ok bool) {
	xi, eta := x+math.Sin(phi), y-1-math.Cos(phi)
	rho := (2 + math.Hypot(xi, eta)) / 4
	if rho > 1 {
		return 0, 0, 0, false
	}
	u = math.Acos(rho)
	t, v = tauOmega(u, -u, xi, eta, phi)
	return t, u, v, t >= -signTolerance && v <= signTolerance
}

// L+R-L-R+
func lpRumLumRp(x, y, phi float64) (t, u, v float64, ok bool) {
	xi, eta := x+math.Sin(phi), y-1-math.Cos(phi)
	rho := (20 - utils.Square(xi) - utils.Square(eta)) / 16
	if rho < 0 || rho > 1 {
		return 0, 0, 0, false
	}
	u = -math.Acos(rho)
	if u < -math.Pi/2 {
		return 0, 0, 0, false
	}
	t, v = tauOmega(u, u, xi, eta, phi)
	return t, u, v, t >= -signTolerance && v >= -signTolerance
}

// L+R-S-L-
func lpRmSmLm(x, y, phi float64) (t, u, v float64, ok bool) {
	rho, theta := polar(x-math.Sin(phi), y-1+math.Cos(phi))
	if rho < 2 {
		return 0, 0, 0, false
	}
	r := math.Sqrt(utils.Square(rho) - 4)
	u = 2 - r
	t = mod2pi(theta + math.Atan2(r, -2))
	v = mod2pi(phi - math.Pi/2 - t)
	return t, u, v, t >= -signTolerance && u <= signTolerance && v <= signTolerance
}

// L+R-S-R-
func lpRmSmRm(x, y, phi float64) (t, u, v float64, ok bool) {
	xi, eta := x+math.Sin(phi), y-1-math.Cos(phi)
	rho, theta := polar(-eta, xi)
	if rho < 2 {
		return 0, 0, 0, false
	}
	t = theta
	u = 2 - rho
	v = mod2pi(t + math.Pi/2 - phi)
	return t, u, v, t >= -signTolerance && u <= signTolerance && v <= signTolerance
}

// L+R-S-L-R+
func lpRmSLmRp(x, y, phi float64) (t, u, v float64, ok bool) {
	xi, eta := x+math.Sin(phi), y-1-math.Cos(phi)
	rho, _ := polar(xi, eta)
	if rho < 2 {
		return 0, 0, 0, false
	}
	u = 4 - math.Sqrt(utils.Square(rho)-4)
	if u > signTolerance {
		return 0, 0, 0, false
	}
	t = mod2pi(math.Atan2((4-u)*xi-2*eta, -2*xi+(u-4)*eta))
	v = mod2pi(t - phi)
	return t, u, v, t >= -signTolerance && v >= -signTolerance
}
