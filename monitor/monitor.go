package monitor

import (
	"os"

	"github.com/gin-gonic/gin"

	"aula-ceip-api/config"
)

// RegisterMonitorPage serves the small ops page used during school hours
// to eyeball the portal without opening a terminal.
func RegisterMonitorPage(router *gin.Engine) {
	router.GET("/monitor", func(c *gin.Context) {
		c.Data(200, "text/html; charset=utf-8", []byte(`<!DOCTYPE html>
<html lang="es">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1.0" />
  <title>Aula CEIP — Monitor</title>
  <style>
    * { margin: 0; padding: 0; box-sizing: border-box; }

    body {
      background: #10243e;
      color: #e6edf5;
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Ubuntu, sans-serif;
      min-height: 100vh;
      padding: 20px;
    }

    .container { max-width: 1100px; margin: 0 auto; }

    h1 {
      font-size: 2rem;
      font-weight: 700;
      color: #9ecbff;
      margin-bottom: 1.5rem;
    }

    .status-card {
      background: rgba(255, 255, 255, 0.06);
      border: 1px solid rgba(255, 255, 255, 0.12);
      border-radius: 12px;
      padding: 1.25rem;
      margin-bottom: 1.5rem;
    }

    #status { font-size: 1.2rem; font-weight: 600; }

    .logs-container {
      background: rgba(255, 255, 255, 0.04);
      border: 1px solid rgba(255, 255, 255, 0.12);
      border-radius: 12px;
      padding: 1.25rem;
    }

    .logs-header {
      display: flex;
      justify-content: space-between;
      align-items: center;
      margin-bottom: 1rem;
      padding-bottom: 1rem;
      border-bottom: 1px solid rgba(255, 255, 255, 0.12);
    }

    .logs-title { font-size: 1.1rem; font-weight: 600; color: #9ecbff; }

    #logs {
      background: rgba(0, 0, 0, 0.35);
      padding: 1.25rem;
      border-radius: 8px;
      max-height: 480px;
      overflow-y: auto;
      white-space: pre-wrap;
      font-family: 'Monaco', 'Consolas', 'Courier New', monospace;
      font-size: 0.85rem;
      line-height: 1.5;
      color: #cbd5e1;
    }

    button {
      padding: 0.6rem 1.2rem;
      background: #2563eb;
      color: #ffffff;
      border: none;
      border-radius: 8px;
      cursor: pointer;
      font-weight: 600;
      font-size: 0.85rem;
    }

    button.paused { background: #b91c1c; }
  </style>
</head>
<body>
  <div class="container">
    <h1>Aula CEIP — Monitor del servidor</h1>

    <div class="status-card">
      <div class="status" id="status">
        <span>Estado: comprobando...</span>
      </div>
    </div>

    <div class="logs-container">
      <div class="logs-header">
        <div class="logs-title">Registro del servidor</div>
        <button onclick="toggleLive()" id="toggleBtn">Pausar</button>
      </div>
      <pre id="logs">Cargando registro...</pre>
    </div>
  </div>

  <script>
    let liveLogs = true;
    const logsElement = document.getElementById('logs');
    const statusElement = document.getElementById('status');
    const toggleBtn = document.getElementById('toggleBtn');

    function fetchStatus() {
      fetch('/api/v1/health')
        .then(res => res.json())
        .then(data => {
          statusElement.innerHTML = '<span>Estado: ' + (data.status === 'ok' ? '🟢 En línea' : '🔴 Caído') + '</span>';
        })
        .catch(() => {
          statusElement.innerHTML = '<span>Estado: 🔴 Caído</span>';
        });
    }

    function fetchLogs() {
      if (!liveLogs) return;
      fetch('/logs?token=' + encodeURIComponent(new URLSearchParams(location.search).get('token') || ''))
        .then(res => res.text())
        .then(data => {
          logsElement.textContent = data;
          logsElement.scrollTop = logsElement.scrollHeight; // auto scroll
        });
    }

    function toggleLive() {
      liveLogs = !liveLogs;
      toggleBtn.textContent = liveLogs ? 'Pausar' : 'Reanudar';
      toggleBtn.classList.toggle('paused', !liveLogs);
    }

    fetchStatus();
    fetchLogs();
    setInterval(fetchStatus, 5000);
    setInterval(fetchLogs, 5000);
  </script>
</body>
</html>`))
	})
}

// RegisterLogsRoute exposes the raw log file behind a shared token so the
// monitor page can tail it. Set MONITOR_TOKEN to enable it.
func RegisterLogsRoute(router *gin.Engine) {
	router.GET("/logs", func(c *gin.Context) {
		token := os.Getenv("MONITOR_TOKEN")
		if token == "" || c.Query("token") != token {
			c.JSON(401, gin.H{"error": "Unauthorized"})
			return
		}
		logData, err := os.ReadFile(config.LogFilePath())
		if err != nil {
			c.JSON(500, gin.H{"error": "Unable to read log"})
			return
		}
		c.Data(200, "text/plain; charset=utf-8", logData)
	})
}
