package app

import (
	"io"

	"github.com/yungbote/plantdx-backend/internal/domain/disease"
	"github.com/yungbote/plantdx-backend/internal/observability"
	"github.com/yungbote/plantdx-backend/internal/platform/logger"
	"github.com/yungbote/plantdx-backend/internal/services"
	"github.com/yungbote/plantdx-backend/internal/services/classifier"
)

type Services struct {
	Diagnosis services.DiagnosisService
	MLStatus  services.MLStatusService
	Chain     *classifier.Chain

	imageCloser io.Closer
}

func wireServices(log *logger.Logger, cfg Config, metrics *observability.Metrics, clients Clients, reposet Repos) (Services, error) {
	log.Info("Wiring services...")

	images, closer, err := resolveImageStore(log, cfg)
	if err != nil {
		return Services{}, err
	}

	chain := classifier.NewChain(log, classifier.ChainOptions{
		Table:           disease.Default(),
		Fallback:        classifier.FallbackMode(cfg.Classifier.Fallback),
		Metrics:         metrics,
		BreakerFailures: cfg.Classifier.BreakerFailures,
		BreakerCooldown: cfg.Classifier.BreakerCooldown.Std(),
	}, chainMembers(cfg.Classifier, clients)...)
	log.Info("Classifier chain ready", "members", chain.Names(), "fallback", cfg.Classifier.Fallback)

	return Services{
		Diagnosis: services.NewDiagnosisService(log, reposet.Diagnosis, images, chain, metrics, services.DiagnosisServiceOptions{
			MaxUploadBytes: cfg.MaxUploadBytes,
		}),
		MLStatus:    services.NewMLStatusService(log, clients.ModelServer, metrics, cfg.ModelStatusTimeout.Std()),
		Chain:       chain,
		imageCloser: closer,
	}, nil
}

// chainMembers orders the enabled classifiers: model server, the two hosted
// models, then cloud vision.
func chainMembers(cfg ClassifierConfig, clients Clients) []classifier.Member {
	var out []classifier.Member
	add := func(c classifier.Classifier, mc ClassifierMemberConfig) {
		out = append(out, classifier.Member{
			Classifier:    c,
			MinConfidence: mc.MinConfidence,
			Timeout:       mc.Timeout.Std(),
		})
	}
	if cfg.ModelServer.Enabled && clients.ModelServer != nil {
		add(classifier.NewModelServer(clients.ModelServer), cfg.ModelServer)
	}
	if clients.HuggingFace != nil {
		if cfg.HuggingFaceViT.Enabled {
			add(classifier.NewHuggingFace(clients.HuggingFace, classifier.HFViTModel), cfg.HuggingFaceViT)
		}
		if cfg.HuggingFacePlant.Enabled {
			add(classifier.NewHuggingFace(clients.HuggingFace, classifier.HFPlantModel), cfg.HuggingFacePlant)
		}
	}
	if cfg.Vision.Enabled && clients.GcpVision != nil {
		add(classifier.NewVision(clients.GcpVision), cfg.Vision)
	}
	return out
}

func (s *Services) Close() {
	if s == nil || s.imageCloser == nil {
		return
	}
	_ = s.imageCloser.Close()
}
