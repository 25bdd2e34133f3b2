package ollama

import "testing"

func TestDockerConfig_Defaults(t *testing.T) {
	if DefaultContainerName != "extractor-ollama" {
		t.Errorf("unexpected default container name: %s", DefaultContainerName)
	}
	if DefaultImage != "ollama/ollama:latest" {
		t.Errorf("unexpected default image: %s", DefaultImage)
	}
	if DefaultPort != "11434" {
		t.Errorf("unexpected default port: %s", DefaultPort)
	}
	if ContainerPort != "11434/tcp" {
		t.Errorf("unexpected container port: %s", ContainerPort)
	}
}

func TestManagerURL(t *testing.T) {
	m := &DockerManager{hostPort: "11434"}
	if got := m.URL(); got != "http://localhost:11434" {
		t.Errorf("URL() = %q", got)
	}

	m = &DockerManager{hostPort: "12345"}
	if got := m.URL(); got != "http://localhost:12345" {
		t.Errorf("URL() = %q", got)
	}
}
