package dependency

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/docdrift/internal/models"
)

func TestDetect_PackageJSON(t *testing.T) {
	t.Run("should reclassify add and remove of same package as update", func(t *testing.T) {
		// Arrange
		patch := "@@ -5,3 +5,3 @@\n" +
			"   \"dependencies\": {\n" +
			"-  \"lodash\": \"^4.16.0\",\n" +
			"+  \"lodash\": \"^4.17.21\",\n" +
			"   \"express\": \"^4.18.2\"\n"

		// Act
		changes := Detect("package.json", patch, 0)

		// Assert
		assert.Equal(t, []string{"lodash@^4.16.0 -> lodash@^4.17.21"}, changes.Updated)
		assert.Empty(t, changes.Added)
		assert.Empty(t, changes.Removed)
	})

	t.Run("should keep pure additions and removals", func(t *testing.T) {
		patch := "+  \"axios\": \"^1.6.0\",\n-  \"request\": \"^2.88.0\",\n+  \"@types/node\": \"^20.1.0\","

		changes := Detect("web/package.json", patch, 0)

		assert.Equal(t, []string{"@types/node@^20.1.0", "axios@^1.6.0"}, changes.Added)
		assert.Equal(t, []string{"request@^2.88.0"}, changes.Removed)
		assert.Empty(t, changes.Updated)
	})

	t.Run("should only take the first dependency on a line", func(t *testing.T) {
		patch := `+  "left-pad": "^1.3.0", "right-pad": "^1.0.1",`

		changes := Detect("package.json", patch, 0)

		assert.Equal(t, []string{"left-pad@^1.3.0"}, changes.Added)
	})
}

func TestDetect_Dialects(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		patch    string
		want     models.DependencyChanges
	}{
		{
			name:     "requirements update",
			filename: "requirements.txt",
			patch:    "-requests==2.28.0\n+requests==2.31.0\n+flask>=3.0",
			want: models.DependencyChanges{
				Added:   []string{"flask>=3.0"},
				Removed: []string{},
				Updated: []string{"requests==2.28.0 -> requests==2.31.0"},
			},
		},
		{
			name:     "go.mod require block",
			filename: "go.mod",
			patch:    "-\tgithub.com/spf13/cobra v1.8.0\n+\tgithub.com/spf13/cobra v1.10.1\n+\tgithub.com/google/uuid v1.6.0 // indirect",
			want: models.DependencyChanges{
				Added:   []string{"github.com/google/uuid@v1.6.0"},
				Removed: []string{},
				Updated: []string{"github.com/spf13/cobra@v1.8.0 -> github.com/spf13/cobra@v1.10.1"},
			},
		},
		{
			name:     "gradle coordinates",
			filename: "app/build.gradle.kts",
			patch:    "-    implementation(\"com.squareup.okhttp3:okhttp:4.11.0\")\n+    implementation(\"com.squareup.okhttp3:okhttp:4.12.0\")",
			want: models.DependencyChanges{
				Added:   []string{},
				Removed: []string{},
				Updated: []string{"com.squareup.okhttp3:okhttp:4.11.0 -> com.squareup.okhttp3:okhttp:4.12.0"},
			},
		},
		{
			name:     "cargo table and inline version",
			filename: "Cargo.toml",
			patch:    "+serde = { version = \"1.0.197\", features = [\"derive\"] }\n-tokio = \"1.35\"",
			want: models.DependencyChanges{
				Added:   []string{"serde@1.0.197"},
				Removed: []string{"tokio@1.35"},
				Updated: []string{},
			},
		},
		{
			name:     "gemfile with and without constraint",
			filename: "Gemfile",
			patch:    "+gem 'rails', '~> 7.1'\n-gem \"puma\"",
			want: models.DependencyChanges{
				Added:   []string{"rails@~> 7.1"},
				Removed: []string{"puma"},
				Updated: []string{},
			},
		},
		{
			name:     "unknown manifest",
			filename: "src/main.go",
			patch:    "+import \"github.com/spf13/cobra\"",
			want: models.DependencyChanges{
				Added:   []string{},
				Removed: []string{},
				Updated: []string{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.filename, tt.patch, 0))
		})
	}
}

func TestDetect_NeverAddedAndRemoved(t *testing.T) {
	// Arrange
	patch := strings.Join([]string{
		`-  "react": "^17.0.2",`,
		`+  "react": "^18.2.0",`,
		`-  "react-dom": "^17.0.2",`,
		`+  "react-dom": "^18.2.0",`,
		`+  "vite": "^5.0.0",`,
		`-  "webpack": "^5.89.0",`,
	}, "\n")

	// Act
	changes := Detect("package.json", patch, 0)

	// Assert
	removedNames := make(map[string]bool)
	for _, id := range changes.Removed {
		removedNames[BareName(id)] = true
	}
	for _, id := range changes.Added {
		assert.False(t, removedNames[BareName(id)], "name %s both added and removed", BareName(id))
	}
	assert.Equal(t, []string{
		"react-dom@^17.0.2 -> react-dom@^18.2.0",
		"react@^17.0.2 -> react@^18.2.0",
	}, changes.Updated)
}

func TestDetect_Cap(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 70; i++ {
		fmt.Fprintf(&b, "+  \"pkg-%02d\": \"^1.0.0\",\n", i)
	}

	changes := Detect("package.json", b.String(), 0)
	require.Len(t, changes.Added, DefaultMaxPerList)

	changes = Detect("package.json", b.String(), 10)
	assert.Len(t, changes.Added, 10)
}

func TestDetectAll(t *testing.T) {
	files := []models.ChangedFile{
		{Filename: "package.json", Patch: "-  \"lodash\": \"^4.16.0\",\n+  \"lodash\": \"^4.17.21\","},
		{Filename: "requirements.txt", Patch: "+httpx==0.27.0"},
		{Filename: "README.md", Patch: "+Install with `npm i lodash`"},
	}

	changes := DetectAll(files, 0)

	assert.Equal(t, []string{"httpx==0.27.0"}, changes.Added)
	assert.Empty(t, changes.Removed)
	assert.Equal(t, []string{"lodash@^4.16.0 -> lodash@^4.17.21"}, changes.Updated)

	t.Run("should reconcile a name moved between manifests", func(t *testing.T) {
		// Arrange
		files := []models.ChangedFile{
			{Filename: "web/package.json", Patch: "+  \"lodash\": \"^4.17.21\","},
			{Filename: "api/package.json", Patch: "-  \"lodash\": \"^4.16.0\","},
		}

		// Act
		changes := DetectAll(files, 0)

		// Assert
		assert.Empty(t, changes.Added)
		assert.Empty(t, changes.Removed)
		assert.Equal(t, []string{"lodash@^4.16.0 -> lodash@^4.17.21"}, changes.Updated)
	})
}

func TestBareName(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"lodash@^4.17.21", "lodash"},
		{"@types/node@^20.1.0", "@types/node"},
		{"@scope/pkg", "@scope/pkg"},
		{"com.squareup.okhttp3:okhttp:4.12.0", "com.squareup.okhttp3:okhttp"},
		{"requests==2.31.0", "requests"},
		{"django>=4.2", "django"},
		{"puma", "puma"},
		{"github.com/spf13/cobra@v1.10.1", "github.com/spf13/cobra"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, BareName(tt.id))
		})
	}
}

func TestSearchableNames(t *testing.T) {
	changes := models.DependencyChanges{
		Added:   []string{"axios@^1.6.0"},
		Removed: []string{"request@^2.88.0", "axios@^0.27.0"},
		Updated: []string{"lodash@^4.16.0 -> lodash@^4.17.21"},
	}

	assert.Equal(t, []string{"axios", "request", "lodash"}, SearchableNames(changes))
}

func TestManifestFor(t *testing.T) {
	m, ok := ManifestFor("services/api/package.json")
	assert.True(t, ok)
	assert.Equal(t, KindPackageJSON, m.Kind)

	_, ok = ManifestFor("Gemfile.lock")
	assert.False(t, ok)

	assert.Len(t, Manifests(), 6)
}
