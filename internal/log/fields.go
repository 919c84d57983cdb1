package log

// FieldComponent tags every line with the emitting component.
const FieldComponent = "component"

// Components defines standard component names.
const (
	ComponentApp    = "app"
	ComponentWorker = "worker"
	ComponentReport = "report"
	ComponentAMQP   = "amqp"
)
