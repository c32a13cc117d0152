package model

// RequestPhase is the lifecycle status of the forecast request.
type RequestPhase string

const (
	PhaseIdle      RequestPhase = "idle"
	PhaseInFlight  RequestPhase = "in-flight"
	PhaseSucceeded RequestPhase = "succeeded"
	PhaseFailed    RequestPhase = "failed"
)

// RequestState is the tagged union idle | in-flight | succeeded(value) | failed(message).
// Forecast is only meaningful in PhaseSucceeded, Message only in PhaseFailed.
type RequestState struct {
	Phase    RequestPhase
	Forecast float64
	Message  string
}

func Idle() RequestState     { return RequestState{Phase: PhaseIdle} }
func InFlight() RequestState { return RequestState{Phase: PhaseInFlight} }

func Succeeded(forecast float64) RequestState {
	return RequestState{Phase: PhaseSucceeded, Forecast: forecast}
}

func Failed(message string) RequestState {
	return RequestState{Phase: PhaseFailed, Message: message}
}

// ForecastValue returns the forecast when the request succeeded.
func (s RequestState) ForecastValue() (float64, bool) {
	if s.Phase != PhaseSucceeded {
		return 0, false
	}
	return s.Forecast, true
}
