package util

import "time"

type PidLoop struct {
	// Proportional Constant
	p float64
	// Integral Constant
	i float64
	// Derivative Constant
	d float64
	// Minimum output value
	outMin float64
	// Maximum output value
	outMax float64

	// last measured value
	lastMeasured float64
	// integral from previous loop + error, i.e. integral error
	integral float64
	// last execution time of the loop
	lastTime time.Time
	// last output value
	lastOutput float64

	now func() time.Time
}

func NewPidLoop(p, i, d, min, max float64) *PidLoop {
	return &PidLoop{
		p:      p,
		i:      i,
		d:      d,
		outMin: min,
		outMax: max,
		now:    time.Now,
	}
}

// WithClock replaces the time source used to calculate the time delta between two loops
func (p *PidLoop) WithClock(now func() time.Time) *PidLoop {
	p.now = now
	return p
}

// Loop advances the pid loop
func (p *PidLoop) Loop(target float64, measured float64) float64 {
	initialized := !p.lastTime.IsZero()
	loopTime := p.now()
	if !initialized {
		p.lastMeasured = measured
		p.lastTime = loopTime
		p.integral = 0.0

		// no time delta yet, so only the P-term is used
		output := Coerce(p.p*(target-measured), p.outMin, p.outMax)
		p.lastOutput = output
		return output
	}

	dt := loopTime.Sub(p.lastTime).Seconds()
	if dt <= 0 {
		return p.lastOutput
	}

	err := target - measured

	proportionalTerm := p.p * err

	// don't integrate if the output is saturated and the error pushes it further
	integrate := true
	if p.lastOutput >= p.outMax && err > 0 {
		integrate = false
	}
	if p.lastOutput <= p.outMin && err < 0 {
		integrate = false
	}
	if integrate {
		p.integral = p.integral + err*dt
	}
	integralTerm := p.i * p.integral

	// derivative on measurement, avoids derivative kick
	derivativeRaw := (measured - p.lastMeasured) / dt
	derivativeTerm := -p.d * derivativeRaw

	output := Coerce(proportionalTerm+integralTerm+derivativeTerm, p.outMin, p.outMax)

	p.lastTime = loopTime
	p.lastMeasured = measured
	p.lastOutput = output

	return output
}
