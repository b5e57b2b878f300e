package diagnostics

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// inspectorPage is the minimal attach page staged next to the database so a
// browser can connect to the inspector without the packaged frontend.
const inspectorPage = `<!doctype html>
<html>
<head><meta charset="utf-8"><title>Taskdeck Inspector</title></head>
<body>
<pre id="out">connecting...</pre>
<script>
const out = document.getElementById("out");
const ws = new WebSocket("ws://" + location.host + "/ws");
ws.onmessage = (ev) => { out.textContent = JSON.stringify(JSON.parse(ev.data), null, 2); };
ws.onclose = () => { out.textContent += "\n[disconnected]"; };
</script>
</body>
</html>
`

// Install stages the inspector bundle under the data dir. A cached copy is
// reused unless force is set. Callers treat failure as non-fatal: the
// application runs without the tooling.
func Install(dataDir string, force bool) (string, error) {
	dir := filepath.Join(dataDir, "inspector")
	page := filepath.Join(dir, "index.html")

	if !force {
		if _, err := os.Stat(page); err == nil {
			log.Println("[Inspector] Using cached bundle")
			return page, nil
		}
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("install inspector: %w", err)
	}
	if err := os.WriteFile(page, []byte(inspectorPage), 0644); err != nil {
		return "", fmt.Errorf("install inspector: %w", err)
	}
	log.Printf("[Inspector] Bundle staged at %s", page)
	return page, nil
}
