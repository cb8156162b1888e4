package engine

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/canvas-bridge/bridge"
	"github.com/wippyai/canvas-bridge/errors"
)

// bindBridge instantiates the import namespace exposing every bridge entry
// point, routing calls to hb.
func bindBridge(ctx context.Context, rt wazero.Runtime, namespace string, hb bridge.HostBridge) error {
	builder := rt.NewHostModuleBuilder(namespace)

	for _, ep := range bridge.EntryPoints() {
		params, decode, err := lowerParam(ep.Param)
		if err != nil {
			return errors.Registration(errors.PhaseBind, namespace, ep.Name, err)
		}
		for _, name := range ep.Names() {
			builder = builder.NewFunctionBuilder().
				WithGoModuleFunction(entryFunc(ep, name, decode, hb), params, nil).
				WithName(name).
				Export(name)
		}
	}

	if _, err := builder.Instantiate(ctx); err != nil {
		return errors.Registration(errors.PhaseBind, namespace, "*", err)
	}
	return nil
}

// entryFunc adapts an entry point to a wazero host function. Decoding
// problems are logged and the call dropped; the guest never sees a trap
// from the bridge.
func entryFunc(ep bridge.EntryPoint, name string, decode paramDecoder, hb bridge.HostBridge) api.GoModuleFunc {
	return func(ctx context.Context, mod api.Module, stack []uint64) {
		arg, err := decode(mod, stack)
		if err != nil {
			Logger().Warn("dropping bridge call", zap.String("entry", name), zap.Error(err))
			return
		}
		if err := ep.Invoke(hb, arg); err != nil {
			Logger().Warn("dropping bridge call", zap.String("entry", name), zap.Error(err))
		}
	}
}
