package dubins

import (
	"math"

	"go.viam.com/robotalgo/utils"
)

// intermediate holds the pose pair in the normalized frame: the start at the origin, the
// end on the +X axis at distance d, and both headings measured from that axis.
type intermediate struct {
	alpha, beta, d float64
	sa, sb, ca, cb float64
	cab            float64
}

func newIntermediate(start, end Pose, radius float64) intermediate {
	delta := end.Point.Sub(start.Point)
	dist := delta.Norm()
	theta := start.Heading
	if dist > samePositionEpsilon {
		theta = math.Atan2(delta.Y, delta.X)
	}
	alpha := utils.WrapTwoPi(start.Heading - theta)
	beta := utils.WrapTwoPi(end.Heading - theta)
	return intermediate{
		alpha: alpha,
		beta:  beta,
		d:     dist / radius,
		sa:    math.Sin(alpha),
		sb:    math.Sin(beta),
		ca:    math.Cos(alpha),
		cb:    math.Cos(beta),
		cab:   math.Cos(alpha - beta),
	}
}

type wordSolver struct {
	word  Word
	solve func(in intermediate) ([3]float64, bool)
}

var words = []wordSolver{
	{LSL, solveLSL},
	{LSR, solveLSR},
	{RSL, solveRSL},
	{RSR, solveRSR},
	{RLR, solveRLR},
	{LRL, solveLRL},
}

func solveLSL(in intermediate) ([3]float64, bool) {
	pSq := 2 + in.d*in.d - 2*in.cab + 2*in.d*(in.sa-in.sb)
	if pSq < 0 {
		return [3]float64{}, false
	}
	tmp := math.Atan2(in.cb-in.ca, in.d+in.sa-in.sb)
	return [3]float64{
		utils.WrapTwoPi(tmp - in.alpha),
		math.Sqrt(pSq),
		utils.WrapTwoPi(in.beta - tmp),
	}, true
}

func solveRSR(in intermediate) ([3]float64, bool) {
	pSq := 2 + in.d*in.d - 2*in.cab + 2*in.d*(in.sb-in.sa)
	if pSq < 0 {
		return [3]float64{}, false
	}
	tmp := math.Atan2(in.ca-in.cb, in.d-in.sa+in.sb)
	return [3]float64{
		utils.WrapTwoPi(in.alpha - tmp),
		math.Sqrt(pSq),
		utils.WrapTwoPi(tmp - in.beta),
	}, true
}

func solveLSR(in intermediate) ([3]float64, bool) {
	pSq := -2 + in.d*in.d + 2*in.cab + 2*in.d*(in.sa+in.sb)
	if pSq < 0 {
		return [3]float64{}, false
	}
	p := math.Sqrt(pSq)
	tmp := math.Atan2(-in.ca-in.cb, in.d+in.sa+in.sb) - math.Atan2(-2, p)
	return [3]float64{
		utils.WrapTwoPi(tmp - in.alpha),
		p,
		utils.WrapTwoPi(tmp - in.beta),
	}, true
}

func solveRSL(in intermediate) ([3]float64, bool) {
	pSq := -2 + in.d*in.d + 2*in.cab - 2*in.d*(in.sa+in.sb)
	if pSq < 0 {
		return [3]float64{}, false
	}
	p := math.Sqrt(pSq)
	tmp := math.Atan2(in.ca+in.cb, in.d-in.sa-in.sb) - math.Atan2(2, p)
	return [3]float64{
		utils.WrapTwoPi(in.alpha - tmp),
		p,
		utils.WrapTwoPi(in.beta - tmp),
	}, true
}

func solveRLR(in intermediate) ([3]float64, bool) {
	tmp := (6 - in.d*in.d + 2*in.cab + 2*in.d*(in.sa-in.sb)) / 8
	if math.Abs(tmp) > 1 {
		return [3]float64{}, false
	}
	phi := math.Atan2(in.ca-in.cb, in.d-in.sa+in.sb)
	p := utils.WrapTwoPi(2*math.Pi - math.Acos(tmp))
	t := utils.WrapTwoPi(in.alpha - phi + p/2)
	return [3]float64{t, p, utils.WrapTwoPi(in.alpha - in.beta - t + p)}, true
}

func solveLRL(in intermediate) ([3]float64, bool) {
	tmp := (6 - in.d*in.d + 2*in.cab + 2*in.d*(in.sb-in.sa)) / 8
	if math.Abs(tmp) > 1 {
		return [3]float64{}, false
	}
	phi := math.Atan2(in.ca-in.cb, in.d+in.sa-in.sb)
	p := utils.WrapTwoPi(2*math.Pi - math.Acos(tmp))
	t := utils.WrapTwoPi(-in.alpha - phi + p/2)
	return [3]float64{t, p, utils.WrapTwoPi(in.beta - in.alpha - t + p)}, true
}
