package owned

// noCopy is embedded into types that must not be copied after first use.
// It has no runtime cost; go vet's copylocks check flags copies of it.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
