package dynamics

import (
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// exGaussian draws from a Gaussian-plus-exponential mixture, the standard
// model for inter-key intervals. The Gaussian is the motor core, the
// exponential tail the occasional attentional lapse. A non-positive tau
// degenerates to a plain Gaussian.
//
// A v1 *rand.Rand satisfies the distuv source contract directly, so every
// draw here consumes the engine's own stream and stays reproducible.
func exGaussian(mu, sigma, tau float64, src *rand.Rand) float64 {
	sample := distuv.Normal{Mu: mu, Sigma: sigma, Src: src}.Rand()
	if tau > 0 {
		sample += distuv.Exponential{Rate: 1 / tau, Src: src}.Rand()
	}
	return sample
}

// logNormal draws from a log-normal with the given parameters in log space.
func logNormal(mu, sigma float64, src *rand.Rand) float64 {
	return distuv.LogNormal{Mu: mu, Sigma: sigma, Src: src}.Rand()
}

// uniform draws from the half-open interval [lo, hi).
func uniform(lo, hi float64, src *rand.Rand) float64 {
	return lo + src.Float64()*(hi-lo)
}
