package model

// ParameterGetter is the interface for models that expose their parameters.
type ParameterGetter interface {
	// GetParams returns the model's hyperparameters.
	GetParams() map[string]interface{}
}

// ConfigurableResampler is a Resampler whose hyperparameters can be logged
// or reported alongside a run.
type ConfigurableResampler interface {
	Resampler
	ParameterGetter
}
