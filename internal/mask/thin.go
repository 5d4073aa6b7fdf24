package mask

// Thin reduces every connected region of m to a one-pixel-wide skeleton using
// the Zhang-Suen parallel thinning algorithm. Endpoints and connectivity are
// preserved; an empty mask thins to an empty mask.
//
// Each iteration runs two sub-passes. A pixel P1 with neighbors P2..P9
// (clockwise from north) is deleted when:
//
//  1. 2 <= B(P1) <= 6, where B counts on neighbors
//  2. A(P1) == 1, where A counts off->on transitions in P2,P3,...,P9,P2
//  3. first pass:  P2*P4*P6 == 0 and P4*P6*P8 == 0
//     second pass: P2*P4*P8 == 0 and P2*P6*P8 == 0
func Thin(m *Mask) *Mask {
	out := m.Clone()
	if out.Empty() {
		return out
	}

	var deletions []int
	for {
		changed := false
		for pass := 0; pass < 2; pass++ {
			deletions = deletions[:0]
			for y := 0; y < out.Height; y++ {
				for x := 0; x < out.Width; x++ {
					if !out.Pix[y*out.Width+x] {
						continue
					}
					if zhangSuenDeletable(out, x, y, pass) {
						deletions = append(deletions, y*out.Width+x)
					}
				}
			}
			for _, idx := range deletions {
				out.Pix[idx] = false
			}
			if len(deletions) > 0 {
				changed = true
			}
		}
		if !changed {
			return out
		}
	}
}

func zhangSuenDeletable(m *Mask, x, y, pass int) bool {
	// P2..P9, clockwise from north.
	p := [8]bool{
		m.Get(x, y-1), m.Get(x+1, y-1), m.Get(x+1, y), m.Get(x+1, y+1),
		m.Get(x, y+1), m.Get(x-1, y+1), m.Get(x-1, y), m.Get(x-1, y-1),
	}

	b := 0
	a := 0
	for i := 0; i < 8; i++ {
		if p[i] {
			b++
		}
		if !p[i] && p[(i+1)%8] {
			a++
		}
	}
	if b < 2 || b > 6 || a != 1 {
		return false
	}

	p2, p4, p6, p8 := p[0], p[2], p[4], p[6]
	if pass == 0 {
		return !(p2 && p4 && p6) && !(p4 && p6 && p8)
	}
	return !(p2 && p4 && p8) && !(p2 && p6 && p8)
}
