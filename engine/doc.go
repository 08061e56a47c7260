// Package engine wraps wazero runtimes and compiled modules as owned values.
//
// A wazero runtime holds native resources until it is closed. Owning it
// through an owned.Ptr ties the close to the handle's lifetime:
//
//	rt := engine.New(ctx, nil)
//	defer rt.Drop() // closes the wazero runtime
//
//	mod, err := rt.Get().Compile(ctx, wasmBytes)
//	if err != nil {
//	    return err
//	}
//	defer mod.Drop()
//
//	fmt.Println(mod.Get().Exports())
//
// Drop never fails; close errors are logged through the package logger.
package engine
