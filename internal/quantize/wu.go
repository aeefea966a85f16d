package quantize

import "github.com/AnyUserName/wirthmage-cli/internal/raster"

// Histogram resolution: 5 bits per channel, plus a zero plane at index 0 so
// the cumulative moments can be read without bounds checks.
const (
	wuBits = 5
	wuSide = 1<<wuBits + 1
	wuSize = wuSide * wuSide * wuSide
)

type wuAxis int

const (
	axisR wuAxis = iota
	axisG
	axisB
)

// wuBox is a half-open cell range (r0,r1] × (g0,g1] × (b0,b1].
type wuBox struct {
	r0, r1, g0, g1, b0, b1 int
	vol                    int
}

// wuMoments holds cumulative histogram moments.
type wuMoments struct {
	wt, mr, mg, mb []int64
	m2             []float64
}

func wuIndex(r, g, b int) int {
	return r*wuSide*wuSide + g*wuSide + b
}

func newWuMoments(r *raster.Raster) *wuMoments {
	m := &wuMoments{
		wt: make([]int64, wuSize),
		mr: make([]int64, wuSize),
		mg: make([]int64, wuSize),
		mb: make([]int64, wuSize),
		m2: make([]float64, wuSize),
	}

	pix := r.Pix()
	const shift = 8 - wuBits
	for i := 0; i+3 < len(pix); i += 4 {
		cr, cg, cb := int(pix[i]), int(pix[i+1]), int(pix[i+2])
		idx := wuIndex(cr>>shift+1, cg>>shift+1, cb>>shift+1)
		m.wt[idx]++
		m.mr[idx] += int64(cr)
		m.mg[idx] += int64(cg)
		m.mb[idx] += int64(cb)
		m.m2[idx] += float64(cr*cr + cg*cg + cb*cb)
	}

	m.accumulate()
	return m
}

// accumulate turns the raw histogram into 3-D prefix sums.
func (m *wuMoments) accumulate() {
	var (
		area                [wuSide]int64
		areaR, areaG, areaB [wuSide]int64
		area2               [wuSide]float64
	)
	for r := 1; r < wuSide; r++ {
		area = [wuSide]int64{}
		areaR = [wuSide]int64{}
		areaG = [wuSide]int64{}
		areaB = [wuSide]int64{}
		area2 = [wuSide]float64{}
		for g := 1; g < wuSide; g++ {
			var line, lineR, lineG, lineB int64
			var line2 float64
			for b := 1; b < wuSide; b++ {
				i := wuIndex(r, g, b)
				line += m.wt[i]
				lineR += m.mr[i]
				lineG += m.mg[i]
				lineB += m.mb[i]
				line2 += m.m2[i]

				area[b] += line
				areaR[b] += lineR
				areaG[b] += lineG
				areaB[b] += lineB
				area2[b] += line2

				p := wuIndex(r-1, g, b)
				m.wt[i] = m.wt[p] + area[b]
				m.mr[i] = m.mr[p] + areaR[b]
				m.mg[i] = m.mg[p] + areaG[b]
				m.mb[i] = m.mb[p] + areaB[b]
				m.m2[i] = m.m2[p] + area2[b]
			}
		}
	}
}

func volume(c *wuBox, mt []int64) int64 {
	return mt[wuIndex(c.r1, c.g1, c.b1)] -
		mt[wuIndex(c.r1, c.g1, c.b0)] -
		mt[wuIndex(c.r1, c.g0, c.b1)] +
		mt[wuIndex(c.r1, c.g0, c.b0)] -
		mt[wuIndex(c.r0, c.g1, c.b1)] +
		mt[wuIndex(c.r0, c.g1, c.b0)] +
		mt[wuIndex(c.r0, c.g0, c.b1)] -
		mt[wuIndex(c.r0, c.g0, c.b0)]
}

func volumeF(c *wuBox, mt []float64) float64 {
	return mt[wuIndex(c.r1, c.g1, c.b1)] -
		mt[wuIndex(c.r1, c.g1, c.b0)] -
		mt[wuIndex(c.r1, c.g0, c.b1)] +
		mt[wuIndex(c.r1, c.g0, c.b0)] -
		mt[wuIndex(c.r0, c.g1, c.b1)] +
		mt[wuIndex(c.r0, c.g1, c.b0)] +
		mt[wuIndex(c.r0, c.g0, c.b1)] -
		mt[wuIndex(c.r0, c.g0, c.b0)]
}

// bottom is the part of volume() that does not depend on the upper bound
// along axis.
func bottom(c *wuBox, axis wuAxis, mt []int64) int64 {
	switch axis {
	case axisR:
		return -mt[wuIndex(c.r0, c.g1, c.b1)] +
			mt[wuIndex(c.r0, c.g1, c.b0)] +
			mt[wuIndex(c.r0, c.g0, c.b1)] -
			mt[wuIndex(c.r0, c.g0, c.b0)]
	case axisG:
		return -mt[wuIndex(c.r1, c.g0, c.b1)] +
			mt[wuIndex(c.r1, c.g0, c.b0)] +
			mt[wuIndex(c.r0, c.g0, c.b1)] -
			mt[wuIndex(c.r0, c.g0, c.b0)]
	default:
		return -mt[wuIndex(c.r1, c.g1, c.b0)] +
			mt[wuIndex(c.r1, c.g0, c.b0)] +
			mt[wuIndex(c.r0, c.g1, c.b0)] -
			mt[wuIndex(c.r0, c.g0, c.b0)]
	}
}

// top is the part of volume() with the upper bound along axis moved to pos.
func top(c *wuBox, axis wuAxis, pos int, mt []int64) int64 {
	switch axis {
	case axisR:
		return mt[wuIndex(pos, c.g1, c.b1)] -
			mt[wuIndex(pos, c.g1, c.b0)] -
			mt[wuIndex(pos, c.g0, c.b1)] +
			mt[wuIndex(pos, c.g0, c.b0)]
	case axisG:
		return mt[wuIndex(c.r1, pos, c.b1)] -
			mt[wuIndex(c.r1, pos, c.b0)] -
			mt[wuIndex(c.r0, pos, c.b1)] +
			mt[wuIndex(c.r0, pos, c.b0)]
	default:
		return mt[wuIndex(c.r1, c.g1, pos)] -
			mt[wuIndex(c.r1, c.g0, pos)] -
			mt[wuIndex(c.r0, c.g1, pos)] +
			mt[wuIndex(c.r0, c.g0, pos)]
	}
}

// variance is the weighted color variance inside c.
func (m *wuMoments) variance(c *wuBox) float64 {
	dr := float64(volume(c, m.mr))
	dg := float64(volume(c, m.mg))
	db := float64(volume(c, m.mb))
	w := float64(volume(c, m.wt))
	if w == 0 {
		return 0
	}
	return volumeF(c, m.m2) - (dr*dr+dg*dg+db*db)/w
}

// maximize finds the cut position along axis in [first, last) that
// maximizes the between-class variance. cut is -1 when no split is possible.
func (m *wuMoments) maximize(c *wuBox, axis wuAxis, first, last int, wholeR, wholeG, wholeB, wholeW int64) (float64, int) {
	baseR := bottom(c, axis, m.mr)
	baseG := bottom(c, axis, m.mg)
	baseB := bottom(c, axis, m.mb)
	baseW := bottom(c, axis, m.wt)

	best, cut := 0.0, -1
	for i := first; i < last; i++ {
		halfR := baseR + top(c, axis, i, m.mr)
		halfG := baseG + top(c, axis, i, m.mg)
		halfB := baseB + top(c, axis, i, m.mb)
		halfW := baseW + top(c, axis, i, m.wt)
		if halfW == 0 {
			continue
		}
		score := sumSquares(halfR, halfG, halfB) / float64(halfW)

		halfR = wholeR - halfR
		halfG = wholeG - halfG
		halfB = wholeB - halfB
		halfW = wholeW - halfW
		if halfW == 0 {
			continue
		}
		score += sumSquares(halfR, halfG, halfB) / float64(halfW)

		if score > best {
			best, cut = score, i
		}
	}
	return best, cut
}

// sumSquares works in float64; channel sums of large images overflow int64
// when squared.
func sumSquares(r, g, b int64) float64 {
	fr, fg, fb := float64(r), float64(g), float64(b)
	return fr*fr + fg*fg + fb*fb
}

// cut splits a into a and b along the axis with the best variance gain.
func (m *wuMoments) cut(a, b *wuBox) bool {
	wholeR := volume(a, m.mr)
	wholeG := volume(a, m.mg)
	wholeB := volume(a, m.mb)
	wholeW := volume(a, m.wt)

	maxR, cutR := m.maximize(a, axisR, a.r0+1, a.r1, wholeR, wholeG, wholeB, wholeW)
	maxG, cutG := m.maximize(a, axisG, a.g0+1, a.g1, wholeR, wholeG, wholeB, wholeW)
	maxB, cutB := m.maximize(a, axisB, a.b0+1, a.b1, wholeR, wholeG, wholeB, wholeW)

	var axis wuAxis
	switch {
	case maxR >= maxG && maxR >= maxB:
		axis = axisR
		if cutR < 0 {
			return false
		}
	case maxG >= maxR && maxG >= maxB:
		axis = axisG
	default:
		axis = axisB
	}

	b.r1, b.g1, b.b1 = a.r1, a.g1, a.b1
	switch axis {
	case axisR:
		b.r0, a.r1 = cutR, cutR
		b.g0, b.b0 = a.g0, a.b0
	case axisG:
		b.g0, a.g1 = cutG, cutG
		b.r0, b.b0 = a.r0, a.b0
	case axisB:
		b.b0, a.b1 = cutB, cutB
		b.r0, b.g0 = a.r0, a.g0
	}

	a.vol = (a.r1 - a.r0) * (a.g1 - a.g0) * (a.b1 - a.b0)
	b.vol = (b.r1 - b.r0) * (b.g1 - b.g0) * (b.b1 - b.b0)
	return true
}

// BuildPalette returns at most Clamp(n) colors chosen by Wu's quantizer
// over the RGB channels of every pixel in r. Alpha does not weight the
// histogram. Fewer colors come back when r has fewer distinct cells.
func BuildPalette(r *raster.Raster, n int) Palette {
	n = Clamp(n)
	if len(r.Pix()) == 0 {
		return nil
	}
	m := newWuMoments(r)

	boxes := make([]wuBox, n)
	vv := make([]float64, n)
	boxes[0] = wuBox{r1: wuSide - 1, g1: wuSide - 1, b1: wuSide - 1}

	count := n
	next := 0
	for i := 1; i < n; i++ {
		if m.cut(&boxes[next], &boxes[i]) {
			vv[next], vv[i] = 0, 0
			if boxes[next].vol > 1 {
				vv[next] = m.variance(&boxes[next])
			}
			if boxes[i].vol > 1 {
				vv[i] = m.variance(&boxes[i])
			}
		} else {
			vv[next] = 0
			i--
		}

		next = 0
		best := vv[0]
		for k := 1; k <= i; k++ {
			if vv[k] > best {
				best, next = vv[k], k
			}
		}
		if best <= 0 {
			count = i + 1
			break
		}
	}

	pal := make(Palette, 0, count)
	for k := 0; k < count; k++ {
		w := volume(&boxes[k], m.wt)
		if w <= 0 {
			continue
		}
		pal = append(pal, raster.RGB{
			R: uint8((volume(&boxes[k], m.mr) + w/2) / w),
			G: uint8((volume(&boxes[k], m.mg) + w/2) / w),
			B: uint8((volume(&boxes[k], m.mb) + w/2) / w),
		})
	}
	return pal
}
