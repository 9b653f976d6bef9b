package session

// Interface is the interactive control surface. Run owns the terminal loop;
// RunCycle performs exactly one capture→extract→classify→gate→dispatch pass
// and is never reentered while a cycle is in flight.
type Interface interface {
	Run() error
	RunCycle() error
}
