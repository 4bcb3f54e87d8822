package tts

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os/exec"
	"strings"
	"time"

	"github.com/cynsight/assistivox-ai/internal/pkg/config"
	"github.com/cynsight/assistivox-ai/internal/pkg/logger"
)

const (
	kokoroContainerName = "kokoro_tts_assistivox"
	kokoroImageCPU      = "ghcr.io/remsky/kokoro-fastapi-cpu:latest"
	kokoroImageGPU      = "ghcr.io/remsky/kokoro-fastapi-gpu:latest"

	readinessAttempts = 30
	readinessInterval = time.Second
)

// DockerManager controls the Kokoro TTS container lifecycle.
type DockerManager struct {
	baseURL string
	port    string
	useGPU  bool
	logger  logger.Logger

	started bool
}

// NewDockerManager creates a manager for the Kokoro container serving the
// configured base URL.
func NewDockerManager(settings config.KokoroSettings, logger logger.Logger) (*DockerManager, error) {
	parsed, err := url.Parse(settings.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid kokoro base URL: %w", err)
	}
	port := parsed.Port()
	if port == "" {
		port = "8880"
	}

	return &DockerManager{
		baseURL: settings.BaseURL,
		port:    port,
		useGPU:  settings.UseGPU,
		logger:  logger,
	}, nil
}

// DockerInstalled reports whether the docker CLI is available.
func (m *DockerManager) DockerInstalled(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return exec.CommandContext(ctx, "docker", "--version").Run() == nil
}

// ContainerRunning reports whether the Kokoro container is already up.
func (m *DockerManager) ContainerRunning(ctx context.Context) bool {
	out, err := exec.CommandContext(ctx, "docker", "ps", "-q", "-f", "name="+kokoroContainerName).Output()
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(out)) != ""
}

// StartContainer starts the Kokoro container and waits for it to serve
// requests. A container already running is left alone; a stale stopped one
// is removed first.
func (m *DockerManager) StartContainer(ctx context.Context) error {
	if !m.DockerInstalled(ctx) {
		return fmt.Errorf("docker is not installed; install Docker to use kokoro TTS")
	}

	if m.ContainerRunning(ctx) {
		m.logger.Info("Kokoro container already running")
		m.started = true
		return nil
	}

	m.logger.Info("Starting kokoro TTS container on port ", m.port)

	// Stale containers with our name block the new run.
	_ = exec.CommandContext(ctx, "docker", "stop", kokoroContainerName).Run()
	_ = exec.CommandContext(ctx, "docker", "rm", kokoroContainerName).Run()

	args := []string{"run", "--rm", "-d"}
	image := kokoroImageCPU
	if m.useGPU {
		args = append(args, "--gpus", "all")
		image = kokoroImageGPU
	}
	args = append(args,
		"-p", fmt.Sprintf("%s:%s", m.port, m.port),
		"--name", kokoroContainerName,
		image,
	)

	if out, err := exec.CommandContext(ctx, "docker", args...).CombinedOutput(); err != nil {
		return fmt.Errorf("failed to start kokoro container: %w: %s", err, strings.TrimSpace(string(out)))
	}

	if err := m.waitReady(ctx); err != nil {
		return err
	}

	m.logger.Info("Kokoro TTS container is ready")
	m.started = true
	return nil
}

// waitReady polls the service docs endpoint until the container answers.
func (m *DockerManager) waitReady(ctx context.Context) error {
	client := &http.Client{Timeout: readinessInterval}

	for i := 0; i < readinessAttempts; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+"/docs", nil)
		if err != nil {
			return fmt.Errorf("failed to build readiness request: %w", err)
		}
		resp, err := client.Do(req)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(readinessInterval):
		}
	}

	return fmt.Errorf("kokoro container did not become ready in time")
}

// StopContainer stops the container if this manager started it.
func (m *DockerManager) StopContainer(ctx context.Context) error {
	if !m.started {
		return nil
	}

	m.logger.Info("Stopping kokoro TTS container")
	if err := exec.CommandContext(ctx, "docker", "stop", kokoroContainerName).Run(); err != nil {
		return fmt.Errorf("failed to stop kokoro container: %w", err)
	}

	m.started = false
	return nil
}
