package market

import "math"

// pearson calcula el coeficiente de correlacion de Pearson entre dos
// series de igual largo. Devuelve exactamente 0 con menos de 2 puntos o
// cuando alguna serie tiene varianza cero.
func pearson(xs, ys []float64) float64 {
	n := len(xs)
	if n < 2 || n != len(ys) {
		return 0
	}

	meanX := mean(xs)
	meanY := mean(ys)

	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}

	if varX == 0 || varY == 0 {
		return 0
	}
	return cov / math.Sqrt(varX*varY)
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// cumulative devuelve la serie de sumas acumuladas.
func cumulative(points []Point) []float64 {
	out := make([]float64, len(points))
	running := 0.0
	for i, p := range points {
		running += p.Value
		out[i] = running
	}
	return out
}

func values(points []Point) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Value
	}
	return out
}

func sumPoints(points []Point) float64 {
	total := 0.0
	for _, p := range points {
		total += p.Value
	}
	return total
}
