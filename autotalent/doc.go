// Package autotalent is a real-time pitch corrector for mono 16-bit PCM.
//
// The host calls [Init] once per process, then creates one [Session] per
// audio stream with [New], configures it and hands it blocks of samples:
//
//	if err := autotalent.Init(); err != nil { ... }
//	s, err := autotalent.New(44100)
//	cfg := autotalent.DefaultConfig()
//	cfg.Key = scale.FSharp
//	err = s.Configure(cfg)
//	for block := range blocks {
//		err = s.Process(block) // corrected in place
//	}
//	err = s.Destroy()
//
// Every block of a Session must have the same length. Sessions are
// independent and may run on different goroutines, but a single Session
// must not be used concurrently.
//
// Inside a Session each analysis hop (a quarter of the analysis frame)
// runs the pitch detector on the most recent frame, snaps the estimate to
// the configured scale, adds vibrato and the fixed pitch shift, smooths
// the correction and retunes a streaming PSOLA shifter. With formant
// correction enabled the shifter runs on an LPC-whitened signal and the
// envelope is restored afterwards.
package autotalent
