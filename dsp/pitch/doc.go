// Package pitch provides the analysis and resynthesis halves of the pitch
// corrector: an autocorrelation fundamental-frequency [Detector], a
// streaming PSOLA [Shifter] and a [CorrectionSmoother] that glides the
// applied correction between analysis hops.
package pitch
