package scene

import (
	"github.com/Carmen-Shannon/oxy-framework/common"
	"github.com/Carmen-Shannon/oxy-framework/engine/model"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// normalizedSize is the bounding size every central model is scaled to.
const normalizedSize = 3

// NormalizingTransform maps a central model to size 3 at the origin. The scanned meshes are
// stored y-up and get turned z-up; the fallback sphere is already centered and is only scaled.
//
// Parameters:
//   - index: the central model selection
//   - m: the model
//
// Returns:
//   - mgl32.Mat4: Scale(3/size) · R · Translate(-center)
func NormalizingTransform(index int, m model.Model) mgl32.Mat4 {
	s := float32(1)
	if size := m.Size(); size > 0 {
		s = normalizedSize / size
	}
	switch index {
	case ModelBunny, ModelDragon:
		return common.Rotate(common.AxisZ, 180).
			Mul4(common.Rotate(common.AxisX, 90)).
			Mul4(common.Scale(s)).
			Mul4(common.Translate(m.Center().Mul(-1)))
	case ModelTeapot:
		return common.Scale(s).Mul4(common.Translate(m.Center().Mul(-1)))
	default:
		return common.Scale(s)
	}
}

// centralSource builds the CPU model for a selection.
func (s *scene) centralSource(index int) (model.Model, error) {
	switch index {
	case ModelTeapot:
		return model.NewModel(model.NewTeapot(s.teapotDivisions),
			model.WithName("teapot"), model.WithMaterial(model.TeapotMaterial)), nil
	case ModelBunny:
		return s.loader.Load(s.bunnyPath)
	case ModelDragon:
		return s.loader.Load(s.dragonPath)
	default:
		return s.fallbackSphere(), nil
	}
}

func (s *scene) fallbackSphere() model.Model {
	return model.NewModel(model.NewSphere(s.sphereDivisions),
		model.WithName("central-sphere"), model.WithMaterial(model.SphereMaterial))
}

func (s *scene) SetCentralModel(index int) error {
	m, err := s.centralSource(index)
	if err != nil {
		if !s.central.Empty() {
			s.logger.Warn("central model unchanged", zap.Int("model", index), zap.Error(err))
			return err
		}
		s.logger.Warn("central model failed, using sphere", zap.Int("model", index), zap.Error(err))
		index, m = ModelSphere, s.fallbackSphere()
	}

	d, err := NewDrawable(s.r, m)
	if err != nil {
		return err
	}
	s.central.Swap(d, NormalizingTransform(index, m), index)
	s.state.CentralModel = index
	s.logger.Debug("central model", zap.String("name", ModelName(index)), zap.Float32("size", m.Size()))
	return nil
}
