package registry

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"
)

const defaultResolveTimeout = 10 * time.Second

// Регулярное выражение для ссылки на docker-образ:
// [host[:port]/]name[/name...][:tag][@sha256:digest]
var dockerRefPattern = regexp.MustCompile(
	`^(?:[a-zA-Z0-9.-]+(?::[0-9]+)?/)?` +
		`[a-z0-9]+(?:[._-][a-z0-9]+)*(?:/[a-z0-9]+(?:[._-][a-z0-9]+)*)*` +
		`(?::[A-Za-z0-9_][A-Za-z0-9_.-]{0,127})?` +
		`(?:@sha256:[a-f0-9]{64})?$`,
)

const manifestAccept = "application/vnd.docker.distribution.manifest.v2+json, " +
	"application/vnd.oci.image.manifest.v1+json, " +
	"application/vnd.oci.image.index.v1+json"

// ResolverConfig — настройки ArtifactResolver.
type ResolverConfig struct {
	// HTTPTimeout — таймаут одного HTTP-запроса. Default: 10s.
	HTTPTimeout time.Duration

	// DockerRegistryURL — адрес Docker Registry API (https://registry.example.com).
	// Если пусто, для docker-образов проверяется только синтаксис ссылки.
	DockerRegistryURL string

	// MavenRepoURL — адрес Maven-репозитория (https://repo.maven.apache.org/maven2).
	// Если пусто, для maven-координат проверяется только синтаксис.
	MavenRepoURL string
}

// ArtifactResolver проверяет доступность артефактов по URI.
//
// Поддерживаемые схемы:
//   - docker:image:tag, docker://image:tag
//   - http://, https:// — HEAD-запрос
//   - file:// — файл существует и это обычный файл
//   - maven://group:artifact[:extension[:classifier]]:version
type ArtifactResolver struct {
	httpClient     *http.Client
	dockerRegistry string
	mavenRepo      string
}

// NewArtifactResolver создаёт новый ArtifactResolver.
func NewArtifactResolver(cfg ResolverConfig) *ArtifactResolver {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = defaultResolveTimeout
	}
	return &ArtifactResolver{
		httpClient:     &http.Client{Timeout: timeout},
		dockerRegistry: strings.TrimRight(cfg.DockerRegistryURL, "/"),
		mavenRepo:      strings.TrimRight(cfg.MavenRepoURL, "/"),
	}
}

// Resolve возвращает nil, если артефакт доступен.
func (r *ArtifactResolver) Resolve(ctx context.Context, uri string) error {
	if ref, ok := strings.CutPrefix(uri, "docker:"); ok {
		return r.resolveDocker(ctx, strings.TrimPrefix(ref, "//"))
	}
	if coords, ok := strings.CutPrefix(uri, "maven://"); ok {
		return r.resolveMaven(ctx, coords)
	}

	u, err := url.Parse(uri)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadReference, err)
	}

	switch u.Scheme {
	case "http", "https":
		return r.head(ctx, uri, "")
	case "file":
		return resolveFile(u.Path)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
}

// resolveDocker проверяет ссылку на образ и, если задан registry, наличие манифеста.
func (r *ArtifactResolver) resolveDocker(ctx context.Context, ref string) error {
	if ref == "" || !dockerRefPattern.MatchString(ref) {
		return fmt.Errorf("%w: docker image %q", ErrBadReference, ref)
	}
	if r.dockerRegistry == "" {
		return nil
	}

	repository, reference := splitImageRef(ref)
	manifestURL := fmt.Sprintf("%s/v2/%s/manifests/%s", r.dockerRegistry, repository, reference)
	return r.head(ctx, manifestURL, manifestAccept)
}

// splitImageRef делит ссылку на репозиторий и tag/digest.
// Хост registry в начале ссылки отбрасывается.
func splitImageRef(ref string) (repository, reference string) {
	if first, rest, ok := strings.Cut(ref, "/"); ok && strings.ContainsAny(first, ".:") {
		ref = rest
	}

	if name, digest, ok := strings.Cut(ref, "@"); ok {
		return stripTag(name), digest
	}

	lastSlash := strings.LastIndex(ref, "/")
	if i := strings.LastIndex(ref, ":"); i > lastSlash {
		return ref[:i], ref[i+1:]
	}
	return ref, "latest"
}

func stripTag(name string) string {
	lastSlash := strings.LastIndex(name, "/")
	if i := strings.LastIndex(name, ":"); i > lastSlash {
		return name[:i]
	}
	return name
}

// resolveMaven проверяет координаты и, если задан репозиторий, наличие файла.
func (r *ArtifactResolver) resolveMaven(ctx context.Context, coords string) error {
	parts := strings.Split(coords, ":")
	if len(parts) < 3 || len(parts) > 5 {
		return fmt.Errorf("%w: maven coordinates %q", ErrBadReference, coords)
	}
	for _, p := range parts {
		if p == "" {
			return fmt.Errorf("%w: maven coordinates %q", ErrBadReference, coords)
		}
	}
	if r.mavenRepo == "" {
		return nil
	}

	group, artifact, version := parts[0], parts[1], parts[len(parts)-1]
	extension := "jar"
	classifier := ""
	if len(parts) >= 4 {
		extension = parts[2]
	}
	if len(parts) == 5 {
		classifier = "-" + parts[3]
	}

	fileURL := fmt.Sprintf("%s/%s/%s/%s/%s-%s%s.%s",
		r.mavenRepo,
		strings.ReplaceAll(group, ".", "/"),
		artifact, version,
		artifact, version, classifier, extension,
	)
	return r.head(ctx, fileURL, "")
}

// head выполняет HEAD-запрос. 2xx — артефакт доступен.
// Если сервер не поддерживает HEAD (405), повторяет запрос через GET.
func (r *ArtifactResolver) head(ctx context.Context, target, accept string) error {
	status, err := r.do(ctx, http.MethodHead, target, accept)
	if err != nil {
		return err
	}
	if status == http.StatusMethodNotAllowed {
		status, err = r.do(ctx, http.MethodGet, target, accept)
		if err != nil {
			return err
		}
	}

	if status >= 200 && status < 300 {
		return nil
	}
	return fmt.Errorf("%w: %s returned %d", ErrArtifactNotFound, target, status)
}

func (r *ArtifactResolver) do(ctx context.Context, method, target, accept string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadReference, err)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", method, target, err)
	}
	resp.Body.Close()

	return resp.StatusCode, nil
}

func resolveFile(path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty file path", ErrBadReference)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrArtifactNotFound, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s is not a regular file", ErrArtifactNotFound, path)
	}
	return nil
}
