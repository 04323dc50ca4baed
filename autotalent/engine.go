package autotalent

import (
	"github.com/cwbudde/algo-autotalent/dsp/pitch"
	"github.com/cwbudde/algo-autotalent/dsp/scale"
)

// processSample runs one sample through analysis, formant whitening,
// PSOLA shifting and envelope restoration. Analysis happens once per hop,
// counted across blocks so results do not depend on the block length.
func (s *Session) processSample(x float64) float64 {
	s.history.Write(x)
	s.hopPos++
	if s.hopPos >= s.frame.Hop() {
		s.hopPos = 0
		s.analyze()
	}

	if !s.formantOn {
		return s.shifter.ProcessSample(x)
	}
	y := s.shifter.ProcessSample(s.formant.Analyze(x))
	return s.formant.Synthesize(y)
}

// analyze updates detector, envelope, correction and LFO for one hop.
func (s *Session) analyze() {
	s.history.Snapshot(s.frameBuf)
	est := s.detector.Detect(s.frameBuf)
	s.last = est

	if s.formantOn {
		s.formant.Update(s.detector.Autocorrelation())
	}

	target := 0.0
	if est.Voiced {
		s.shifter.SetInputPeriod(est.Period)
		target = s.cfg.Strength * s.correctionFor(est.Frequency)
	} else if p := s.detector.LastPeriod(); p > 0 {
		s.shifter.SetInputPeriod(p)
	}

	shift := s.smoother.Next(target)
	if est.Voiced {
		shift += s.cfg.PitchShift + s.lfo.Value()
	}
	s.correction = shift
	s.shifter.SetRatio(pitch.Ratio(shift))
	s.lfo.Advance(s.frame.Hop())
}

// correctionFor returns target minus detected pitch in semitones.
func (s *Session) correctionFor(freq float64) float64 {
	detected := scale.Semitones(freq, s.cfg.ConcertA)
	return s.quantizer.TargetSemitones(detected) - detected
}
