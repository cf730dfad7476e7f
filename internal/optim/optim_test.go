package optim_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/scopt/internal/autodiff"
	"github.com/born-ml/scopt/internal/nn"
	"github.com/born-ml/scopt/internal/optim"
	"github.com/born-ml/scopt/internal/tensor"
)

func param64(name string, values ...float64) *nn.Parameter {
	return nn.NewParameter(name, tensor.MustFromSlice(values, tensor.Shape{len(values)}))
}

func param32(name string, values ...float32) *nn.Parameter {
	return nn.NewParameter(name, tensor.MustFromSlice(values, tensor.Shape{len(values)}))
}

// gradsFor builds a gradient map giving p the gradient values.
func gradsFor(p *nn.Parameter, values ...float64) map[*tensor.RawTensor]*tensor.RawTensor {
	g := tensor.ZerosLike(p.Tensor())
	for i, v := range values {
		g.SetAt(i, v)
	}
	return map[*tensor.RawTensor]*tensor.RawTensor{p.Tensor(): g}
}

// newAll builds one of every optimizer over params.
func newAll(t *testing.T, params []*nn.Parameter, base optim.Config) []optim.Optimizer {
	t.Helper()
	sca, err := optim.NewSCAdagrad(params, optim.SCAdagradConfig{Config: base})
	require.NoError(t, err)
	scr, err := optim.NewSCRMSProp(params, optim.SCRMSPropConfig{Config: base})
	require.NoError(t, err)
	rv, err := optim.NewRMSPropVariant(params, optim.RMSPropVariantConfig{Config: base})
	require.NoError(t, err)
	sgd, err := optim.NewSGD(params, optim.SGDConfig{Config: base, Momentum: 0.5})
	require.NoError(t, err)
	adam, err := optim.NewAdam(params, optim.AdamConfig{Config: base})
	require.NoError(t, err)
	return []optim.Optimizer{sca, scr, rv, sgd, adam}
}

func TestSCAdagrad_SingleStep(t *testing.T) {
	p := param64("p", 1.0)
	opt, err := optim.NewSCAdagrad([]*nn.Parameter{p}, optim.SCAdagradConfig{LR: 0.01, Xi1: 0.1, Xi2: 0.1})
	require.NoError(t, err)

	opt.Step(gradsFor(p, 2.0))

	// v = 4, denominator = 4 + 0.1*exp(-0.4)
	assert.Equal(t, 4.0, opt.Accumulator(p).At(0))
	denom := 4.0 + 0.1*math.Exp(-0.4)
	assert.InDelta(t, 4.06703, denom, 1e-5)
	assert.InDelta(t, 1.0-0.01*2.0/denom, p.Tensor().At(0), 1e-12)
	assert.InDelta(t, 0.99508, p.Tensor().At(0), 1e-5)
}

func TestSCAdagrad_Float32(t *testing.T) {
	p := param32("p", 1.0)
	opt, err := optim.NewSCAdagrad([]*nn.Parameter{p}, optim.SCAdagradConfig{})
	require.NoError(t, err)

	opt.Step(gradsFor(p, 2.0))

	assert.Equal(t, tensor.Float32, opt.Accumulator(p).DType())
	assert.InDelta(t, 0.99508, float64(p.Tensor().AsFloat32()[0]), 1e-5)
}

func TestSCAdagrad_Accumulates(t *testing.T) {
	p := param64("p", 0, 0)
	opt, err := optim.NewSCAdagrad([]*nn.Parameter{p}, optim.SCAdagradConfig{})
	require.NoError(t, err)

	opt.Step(gradsFor(p, 1, -2))
	opt.Step(gradsFor(p, 3, 0))

	assert.Equal(t, []float64{10, 4}, opt.Accumulator(p).AsFloat64())
}

func TestSCRMSProp_FirstStep(t *testing.T) {
	p := param64("p", 1.0)
	opt, err := optim.NewSCRMSProp([]*nn.Parameter{p}, optim.SCRMSPropConfig{LR: 0.01, Gamma: 0.9})
	require.NoError(t, err)

	opt.Step(gradsFor(p, 1.0))

	// t = 1: v = gamma * g² since the accumulator starts at zero.
	v := opt.Accumulator(p).At(0)
	assert.InDelta(t, 0.9, v, 1e-12)
	want := 1.0 - 0.01*1.0/(0.9+0.1*math.Exp(-0.1*0.9))
	assert.InDelta(t, want, p.Tensor().At(0), 1e-12)
}

func TestSCRMSProp_FirstStepKeepsOneMinusGammaOfPriorState(t *testing.T) {
	p := param64("p", 1.0)
	opt, err := optim.NewSCRMSProp([]*nn.Parameter{p}, optim.SCRMSPropConfig{Gamma: 0.9})
	require.NoError(t, err)

	// Accumulators start at zero; a non-zero prior is only reachable by
	// writing the state directly. The recurrence weights it by 1 - gamma/t,
	// so at t = 1 the prior is scaled by 1 - gamma rather than discarded
	// (see the decision recorded in DESIGN.md).
	opt.Accumulator(p).Fill(5)
	opt.Step(gradsFor(p, 1.0))

	assert.InDelta(t, 0.1*5+0.9, opt.Accumulator(p).At(0), 1e-12)
}

func TestSCRMSProp_SecondStepUsesTimeWeight(t *testing.T) {
	p := param64("p", 0.5)
	opt, err := optim.NewSCRMSProp([]*nn.Parameter{p}, optim.SCRMSPropConfig{})
	require.NoError(t, err)

	opt.Step(gradsFor(p, 1.0))
	before := p.Tensor().At(0)
	opt.Step(gradsFor(p, 2.0))

	// t = 2: v = (1 - 0.45)*0.9 + 0.45*4
	v := 0.55*0.9 + 0.45*4
	assert.InDelta(t, v, opt.Accumulator(p).At(0), 1e-12)
	want := before - 0.01*2.0/(2*v+0.1*math.Exp(-0.1*2*v))
	assert.InDelta(t, want, p.Tensor().At(0), 1e-12)
}

func TestRMSPropVariant_Update(t *testing.T) {
	p := param64("p", 1.0)
	opt, err := optim.NewRMSPropVariant([]*nn.Parameter{p}, optim.RMSPropVariantConfig{LR: 0.1})
	require.NoError(t, err)

	opt.Step(gradsFor(p, 2.0))

	v := 0.9 * 4.0
	assert.InDelta(t, v, opt.Accumulator(p).At(0), 1e-12)
	assert.InDelta(t, 1.0-0.1*2.0/(math.Sqrt(v)+1e-8), p.Tensor().At(0), 1e-12)
}

func TestRMSPropVariant_ZeroGradientIsIdempotent(t *testing.T) {
	p := param64("p", 1.0, -3.0)
	opt, err := optim.NewRMSPropVariant([]*nn.Parameter{p}, optim.RMSPropVariantConfig{})
	require.NoError(t, err)

	opt.Step(gradsFor(p, 2.0, 1.0))
	after1 := p.Tensor().Clone()
	v1 := opt.Accumulator(p).Clone()

	opt.Step(gradsFor(p, 0, 0))

	assert.Equal(t, after1.AsFloat64(), p.Tensor().AsFloat64(), "zero gradient must not move parameters")
	for i := range v1.NumElements() {
		assert.InDelta(t, (1-0.9/2)*v1.At(i), opt.Accumulator(p).At(i), 1e-12)
	}
}

func TestRMSPropVariant_ZeroDeltaDividesByZero(t *testing.T) {
	p := param64("p", 1.0)
	opt, err := optim.NewRMSPropVariant([]*nn.Parameter{p}, optim.RMSPropVariantConfig{Delta: optim.Float64(0)})
	require.NoError(t, err)
	assert.Equal(t, 0.0, opt.GetConfig()["delta"])

	opt.Step(gradsFor(p, 0))

	assert.True(t, math.IsNaN(p.Tensor().At(0)), "0/0 is left to IEEE arithmetic")
}

func TestAccumulatorNonNegative(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	w := param64("w", 0.1, -0.2, 0.3)
	b := param32("b", 0.5)
	params := []*nn.Parameter{w, b}

	for _, opt := range newAll(t, params, optim.Config{}) {
		for range 200 {
			grads := gradsFor(w, rng.NormFloat64()*10, rng.NormFloat64(), rng.NormFloat64()*0.01)
			for k, v := range gradsFor(b, rng.NormFloat64()) {
				grads[k] = v
			}
			opt.Step(grads)

			for _, p := range params {
				if opt.Name() == optim.SGDName {
					continue // velocity is signed
				}
				assert.GreaterOrEqual(t, tensor.Min(opt.Accumulator(p)), 0.0, opt.Name())
			}
		}
	}
}

func TestIterationsCountSteps(t *testing.T) {
	a := param64("a", 1)
	b := param64("b", 1, 2)
	c := param64("c", 3) // never receives a gradient
	params := []*nn.Parameter{a, b, c}

	for _, opt := range newAll(t, params, optim.Config{}) {
		assert.Equal(t, 0, opt.Iterations())
		for range 7 {
			grads := gradsFor(a, 0.5)
			for k, v := range gradsFor(b, 0.1, -0.1) {
				grads[k] = v
			}
			opt.Step(grads)
		}
		assert.Equal(t, 7, opt.Iterations(), opt.Name())
		assert.Equal(t, []float64{3}, c.Tensor().AsFloat64(), "parameter without gradient is untouched")
	}

	// An empty gradient map still counts as a step.
	opt, err := optim.NewSCAdagrad(params, optim.SCAdagradConfig{})
	require.NoError(t, err)
	opt.Step(map[*tensor.RawTensor]*tensor.RawTensor{})
	assert.Equal(t, 1, opt.Iterations())
}

func TestDecay_ShrinksEffectiveLR(t *testing.T) {
	p := param64("p", 1.0)
	opt, err := optim.NewSCAdagrad([]*nn.Parameter{p}, optim.SCAdagradConfig{LR: 0.1, Decay: 0.5})
	require.NoError(t, err)

	prev := opt.EffectiveLR()
	assert.Equal(t, 0.1, prev, "first step uses the undecayed rate")
	for n := 1; n <= 10; n++ {
		opt.Step(gradsFor(p, 1.0))
		cur := opt.EffectiveLR()
		assert.Less(t, cur, prev)
		assert.InDelta(t, 0.1/(1+0.5*float64(n)), cur, 1e-15)
		prev = cur
	}
	assert.Equal(t, 0.1, opt.GetLR())
}

func TestDecay_AppliedToUpdate(t *testing.T) {
	// Second step: t = 2, lr_eff = 0.1 / (1 + 1*1) = 0.05, g = 1 both steps.
	// The time-weighted accumulator after two unit gradients is
	// v = (1 - 0.9/2)*0.9 + 0.9/2 = 0.945.
	const v2 = (1-0.9/2)*0.9 + 0.9/2

	tests := []struct {
		name string
		opt  func(p *nn.Parameter) (optim.Optimizer, error)
		step func(before float64) float64
	}{
		{
			name: "sc_adagrad",
			opt: func(p *nn.Parameter) (optim.Optimizer, error) {
				return optim.NewSCAdagrad([]*nn.Parameter{p}, optim.SCAdagradConfig{LR: 0.1, Decay: 1})
			},
			// v = 2.
			step: func(before float64) float64 { return before - 0.05/(2+0.1*math.Exp(-0.2)) },
		},
		{
			name: "sc_rmsprop",
			opt: func(p *nn.Parameter) (optim.Optimizer, error) {
				return optim.NewSCRMSProp([]*nn.Parameter{p}, optim.SCRMSPropConfig{LR: 0.1, Decay: 1})
			},
			step: func(before float64) float64 { return before - 0.05/(2*v2+0.1*math.Exp(-0.1*2*v2)) },
		},
		{
			name: "rmsprop_variant",
			opt: func(p *nn.Parameter) (optim.Optimizer, error) {
				return optim.NewRMSPropVariant([]*nn.Parameter{p}, optim.RMSPropVariantConfig{LR: 0.1, Decay: 1})
			},
			step: func(before float64) float64 { return before - 0.05/(math.Sqrt(2*v2)+1e-8) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := param64("p", 1.0)
			opt, err := tt.opt(p)
			require.NoError(t, err)

			opt.Step(gradsFor(p, 1.0))
			before := p.Tensor().At(0)
			opt.Step(gradsFor(p, 1.0))

			assert.InDelta(t, tt.step(before), p.Tensor().At(0), 1e-12)
		})
	}
}

func TestDecay_SetDecayRequiresInitialDecay(t *testing.T) {
	p := param64("p", 1.0)
	opt, err := optim.NewSCRMSProp([]*nn.Parameter{p}, optim.SCRMSPropConfig{LR: 0.1})
	require.NoError(t, err)

	opt.SetDecay(1)
	opt.Step(gradsFor(p, 1.0))
	assert.Equal(t, 0.1, opt.EffectiveLR())

	decayed, err := optim.NewSCRMSProp([]*nn.Parameter{p}, optim.SCRMSPropConfig{LR: 0.1, Decay: 0.1})
	require.NoError(t, err)
	decayed.SetDecay(1)
	decayed.Step(gradsFor(p, 1.0))
	assert.InDelta(t, 0.05, decayed.EffectiveLR(), 1e-15)
	assert.Equal(t, 1.0, decayed.Decay())
}

func TestConstraints_PassThrough(t *testing.T) {
	constrained := param64("constrained", 0.001)
	free := param64("free", 0.001)
	twin := param64("twin", 0.001)

	cs := nn.NewConstraints()
	cs.Set(constrained, nn.NonNeg{})

	opt, err := optim.NewSCAdagrad([]*nn.Parameter{constrained, free}, optim.SCAdagradConfig{
		LR:     1,
		Config: optim.Config{Constraints: cs},
	})
	require.NoError(t, err)
	ref, err := optim.NewSCAdagrad([]*nn.Parameter{twin}, optim.SCAdagradConfig{LR: 1})
	require.NoError(t, err)

	grads := gradsFor(constrained, 1.0)
	for k, v := range gradsFor(free, 1.0) {
		grads[k] = v
	}
	opt.Step(grads)
	ref.Step(gradsFor(twin, 1.0))

	unconstrained := twin.Tensor().At(0)
	require.Less(t, unconstrained, 0.0)
	assert.Equal(t, 0.0, constrained.Tensor().At(0), "projection applied to p_new")
	assert.Equal(t, unconstrained, free.Tensor().At(0), "no projection: p_new exactly")
}

func TestWorkers_MatchSequential(t *testing.T) {
	build := func(workers int) ([]*nn.Parameter, optim.Optimizer) {
		params := []*nn.Parameter{
			param64("a", 1, 2, 3),
			param64("b", -1),
			param32("c", 0.5, 0.25),
			param64("d", 4, 4),
		}
		opt, err := optim.NewSCRMSProp(params, optim.SCRMSPropConfig{Config: optim.Config{Workers: workers}})
		require.NoError(t, err)
		return params, opt
	}

	seqParams, seq := build(1)
	parParams, par := build(4)

	rng := rand.New(rand.NewPCG(9, 9))
	for range 20 {
		seqGrads := map[*tensor.RawTensor]*tensor.RawTensor{}
		parGrads := map[*tensor.RawTensor]*tensor.RawTensor{}
		for i := range seqParams {
			g := tensor.ZerosLike(seqParams[i].Tensor())
			for j := range g.NumElements() {
				g.SetAt(j, rng.NormFloat64())
			}
			seqGrads[seqParams[i].Tensor()] = g
			parGrads[parParams[i].Tensor()] = g.Clone()
		}
		seq.Step(seqGrads)
		par.Step(parGrads)
	}

	for i := range seqParams {
		assert.Equal(t, seqParams[i].Tensor().Float64s(), parParams[i].Tensor().Float64s())
		assert.Equal(t, seq.Accumulator(seqParams[i]).Float64s(), par.Accumulator(parParams[i]).Float64s())
	}
	assert.Equal(t, 20, par.Iterations())
}

func TestClipping(t *testing.T) {
	a := param64("a", 0, 0)
	opt, err := optim.NewSGD([]*nn.Parameter{a}, optim.SGDConfig{LR: 1, Config: optim.Config{ClipNorm: 1}})
	require.NoError(t, err)

	g := gradsFor(a, 3, 4)
	opt.Step(g)
	assert.InDeltaSlice(t, []float64{-0.6, -0.8}, a.Tensor().AsFloat64(), 1e-12)
	assert.Equal(t, []float64{3, 4}, g[a.Tensor()].AsFloat64(), "caller gradients are not modified")

	b := param64("b", 0, 0)
	opt, err = optim.NewSGD([]*nn.Parameter{b}, optim.SGDConfig{LR: 1, Config: optim.Config{ClipValue: 0.5}})
	require.NoError(t, err)
	opt.Step(gradsFor(b, 3, -0.25))
	assert.InDeltaSlice(t, []float64{-0.5, 0.25}, b.Tensor().AsFloat64(), 1e-12)
}

func TestStep_ShapeMismatchPanics(t *testing.T) {
	p := param64("p", 1, 2)
	opt, err := optim.NewSCAdagrad([]*nn.Parameter{p}, optim.SCAdagradConfig{})
	require.NoError(t, err)

	bad := map[*tensor.RawTensor]*tensor.RawTensor{
		p.Tensor(): tensor.MustFromSlice([]float64{1, 2, 3}, tensor.Shape{3}),
	}
	assert.Panics(t, func() { opt.Step(bad) })
}

func TestSGD_SimpleUpdate(t *testing.T) {
	x := param64("x", 2.0)
	opt, err := optim.NewSGD([]*nn.Parameter{x}, optim.SGDConfig{LR: 0.1})
	require.NoError(t, err)

	opt.Step(gradsFor(x, 1.0))

	// Expected: x_new = x_old - lr * grad = 2.0 - 0.1 * 1.0 = 1.9
	assert.InDelta(t, 1.9, x.Tensor().At(0), 1e-12)
}

func TestSGD_WithMomentum(t *testing.T) {
	x := param32("x", 1.0)
	opt, err := optim.NewSGD([]*nn.Parameter{x}, optim.SGDConfig{LR: 0.1, Momentum: 0.9})
	require.NoError(t, err)

	// v_1 = 1.0, x_1 = 0.9
	opt.Step(gradsFor(x, 1.0))
	assert.InDelta(t, 0.9, x.Tensor().At(0), 1e-6)

	// v_2 = 0.9 * 1.0 + 1.0 = 1.9, x_2 = 0.9 - 0.19 = 0.71
	opt.Step(gradsFor(x, 1.0))
	assert.InDelta(t, 0.71, x.Tensor().At(0), 1e-5)
}

func TestAdam_FirstStepMovesByLR(t *testing.T) {
	x := param64("x", 1.0)
	opt, err := optim.NewAdam([]*nn.Parameter{x}, optim.AdamConfig{LR: 0.01})
	require.NoError(t, err)

	// Bias-corrected first step is lr * sign(g) up to eps.
	opt.Step(gradsFor(x, 5.0))
	assert.InDelta(t, 0.99, x.Tensor().At(0), 1e-6)
}

func TestZeroGradAndGetSetLR(t *testing.T) {
	x := param64("x", 1.0)
	x.SetGrad(tensor.MustFromSlice([]float64{5}, tensor.Shape{1}))

	opt, err := optim.NewSCAdagrad([]*nn.Parameter{x}, optim.SCAdagradConfig{LR: 0.01})
	require.NoError(t, err)

	opt.ZeroGrad()
	assert.Nil(t, x.Grad())

	assert.Equal(t, 0.01, opt.GetLR())
	opt.SetLR(0.2)
	assert.Equal(t, 0.2, opt.GetLR())
	assert.Equal(t, 0.2, opt.EffectiveLR())
}

func TestMinimize_ConvergesOnQuadratic(t *testing.T) {
	// f(x) = sum((x - c)²), strongly convex with minimum at c.
	c := tensor.MustFromSlice([]float64{0.5, -0.5, 0.25}, tensor.Shape{3})

	for _, tc := range []struct {
		name  string
		build func([]*nn.Parameter) (optim.Optimizer, error)
	}{
		{optim.SCAdagradName, func(p []*nn.Parameter) (optim.Optimizer, error) {
			return optim.NewSCAdagrad(p, optim.SCAdagradConfig{LR: 0.5})
		}},
		{optim.SCRMSPropName, func(p []*nn.Parameter) (optim.Optimizer, error) {
			return optim.NewSCRMSProp(p, optim.SCRMSPropConfig{LR: 0.5})
		}},
		{optim.RMSPropVariantName, func(p []*nn.Parameter) (optim.Optimizer, error) {
			return optim.NewRMSPropVariant(p, optim.RMSPropVariantConfig{LR: 0.1, Decay: 0.001})
		}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			x := param64("x", 0, 0, 0)
			opt, err := tc.build([]*nn.Parameter{x})
			require.NoError(t, err)

			lossAt := func() float64 {
				return tensor.Sum(tensor.Square(tensor.Sub(x.Tensor(), c)))
			}
			initial := lossAt()

			for range 500 {
				tape := autodiff.NewGradientTape()
				tape.StartRecording()
				loss := tape.Sum(tape.Square(tape.Sub(x.Tensor(), c)))
				require.NoError(t, opt.Minimize(tape, loss))
			}

			assert.Equal(t, 500, opt.Iterations())
			assert.NotNil(t, x.Grad())
			assert.Less(t, lossAt(), initial*1e-2)
		})
	}
}

func TestMinimize_PropagatesBackwardError(t *testing.T) {
	x := param64("x", 1)
	opt, err := optim.NewSCAdagrad([]*nn.Parameter{x}, optim.SCAdagradConfig{})
	require.NoError(t, err)

	err = opt.Minimize(autodiff.NewGradientTape(), x.Tensor())
	assert.ErrorIs(t, err, autodiff.ErrNoOperations)
	assert.Equal(t, 0, opt.Iterations())
}

func TestComputeGradients(t *testing.T) {
	x := param64("x", 3)
	unused := param64("unused", 1, 1)

	tape := autodiff.NewGradientTape()
	tape.StartRecording()
	loss := tape.Sum(tape.Square(x.Tensor()))

	grads, err := optim.ComputeGradients(tape, loss, []*nn.Parameter{x, unused})
	require.NoError(t, err)
	require.Len(t, grads, 2)
	assert.Equal(t, []float64{6}, grads[0].AsFloat64())
	assert.Equal(t, []float64{0, 0}, grads[1].AsFloat64())
}

func TestInvalidConfigs(t *testing.T) {
	params := []*nn.Parameter{param64("p", 1)}

	_, err := optim.NewSCAdagrad(params, optim.SCAdagradConfig{Xi1: 1.5})
	assert.ErrorIs(t, err, optim.ErrInvalidConfig)
	_, err = optim.NewSCAdagrad(params, optim.SCAdagradConfig{Xi2: -0.1})
	assert.ErrorIs(t, err, optim.ErrInvalidConfig)
	_, err = optim.NewSCAdagrad(params, optim.SCAdagradConfig{LR: -1})
	assert.ErrorIs(t, err, optim.ErrInvalidConfig)
	_, err = optim.NewSCAdagrad(params, optim.SCAdagradConfig{Decay: -1})
	assert.ErrorIs(t, err, optim.ErrInvalidConfig)
	_, err = optim.NewSCRMSProp(params, optim.SCRMSPropConfig{Gamma: 1.5})
	assert.ErrorIs(t, err, optim.ErrInvalidConfig)
	_, err = optim.NewSCRMSProp(params, optim.SCRMSPropConfig{Xi1: -1})
	assert.ErrorIs(t, err, optim.ErrInvalidConfig)
	_, err = optim.NewRMSPropVariant(params, optim.RMSPropVariantConfig{Delta: optim.Float64(-1)})
	assert.ErrorIs(t, err, optim.ErrInvalidConfig)
	_, err = optim.NewSGD(params, optim.SGDConfig{Momentum: 1})
	assert.ErrorIs(t, err, optim.ErrInvalidConfig)
	_, err = optim.NewAdam(params, optim.AdamConfig{Beta2: 1})
	assert.ErrorIs(t, err, optim.ErrInvalidConfig)
	_, err = optim.NewSCAdagrad(params, optim.SCAdagradConfig{Config: optim.Config{ClipNorm: -1}})
	assert.ErrorIs(t, err, optim.ErrInvalidConfig)
	_, err = optim.NewSCAdagrad([]*nn.Parameter{nil}, optim.SCAdagradConfig{})
	assert.ErrorIs(t, err, optim.ErrInvalidConfig)
}

func TestInvalidConfigs_NaN(t *testing.T) {
	params := []*nn.Parameter{param64("p", 1)}
	nan := math.NaN()

	tests := []struct {
		name  string
		build func() error
	}{
		{"sc_adagrad xi_1", func() error { _, err := optim.NewSCAdagrad(params, optim.SCAdagradConfig{Xi1: nan}); return err }},
		{"sc_adagrad decay", func() error { _, err := optim.NewSCAdagrad(params, optim.SCAdagradConfig{Decay: nan}); return err }},
		{"sc_rmsprop xi_1", func() error { _, err := optim.NewSCRMSProp(params, optim.SCRMSPropConfig{Xi1: nan}); return err }},
		{"sc_rmsprop xi_2", func() error { _, err := optim.NewSCRMSProp(params, optim.SCRMSPropConfig{Xi2: nan}); return err }},
		{"sc_rmsprop gamma", func() error { _, err := optim.NewSCRMSProp(params, optim.SCRMSPropConfig{Gamma: nan}); return err }},
		{"sc_rmsprop decay", func() error { _, err := optim.NewSCRMSProp(params, optim.SCRMSPropConfig{Decay: nan}); return err }},
		{"rmsprop_variant delta", func() error {
			_, err := optim.NewRMSPropVariant(params, optim.RMSPropVariantConfig{Delta: optim.Float64(nan)})
			return err
		}},
		{"rmsprop_variant decay", func() error {
			_, err := optim.NewRMSPropVariant(params, optim.RMSPropVariantConfig{Decay: nan})
			return err
		}},
		{"sgd momentum", func() error { _, err := optim.NewSGD(params, optim.SGDConfig{Momentum: nan}); return err }},
		{"adam beta_1", func() error { _, err := optim.NewAdam(params, optim.AdamConfig{Beta1: nan}); return err }},
		{"clipnorm", func() error {
			_, err := optim.NewSCAdagrad(params, optim.SCAdagradConfig{Config: optim.Config{ClipNorm: nan}})
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.build(), optim.ErrInvalidConfig)
		})
	}
}

func TestWorkers_LargeParameterSplitsElements(t *testing.T) {
	const n = 3 * 4096
	values := make([]float64, n)
	grad := make([]float64, n)
	rng := rand.New(rand.NewPCG(1, 2))
	for i := range values {
		values[i] = rng.NormFloat64()
		grad[i] = rng.NormFloat64()
	}

	seqP := param64("w", values...)
	parP := param64("w", values...)
	seq, err := optim.NewAdam([]*nn.Parameter{seqP}, optim.AdamConfig{})
	require.NoError(t, err)
	par, err := optim.NewAdam([]*nn.Parameter{parP}, optim.AdamConfig{Config: optim.Config{Workers: 3}})
	require.NoError(t, err)

	for range 3 {
		seq.Step(gradsFor(seqP, grad...))
		par.Step(gradsFor(parP, grad...))
	}

	assert.Equal(t, seqP.Tensor().AsFloat64(), parP.Tensor().AsFloat64())
	assert.Equal(t, seq.Accumulator(seqP).AsFloat64(), par.Accumulator(parP).AsFloat64())
}
