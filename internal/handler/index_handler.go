package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// indexPage is the minimal upload form served at the root. Everything it
// does goes through the same JSON API the endpoints expose.
const indexPage = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>invox - PDF Invoice to Excel</title>
  <style>
    body { font-family: Arial, sans-serif; max-width: 640px; margin: 40px auto; padding: 0 20px; }
    h1 { color: #1f77b4; }
    .result { margin-top: 20px; padding: 12px; border: 1px solid #ccc; border-radius: 6px; white-space: pre-wrap; }
    button { padding: 8px 16px; }
  </style>
</head>
<body>
  <h1>PDF Invoice to Excel</h1>
  <p>Upload one or more PDF invoices. Each is converted to structured text,
     run through field extraction, and collected into an Excel workbook.</p>
  <form id="form">
    <input type="file" name="files" accept=".pdf" multiple required>
    <button type="submit">Process</button>
  </form>
  <div id="out" class="result" hidden></div>
  <script>
    const form = document.getElementById('form');
    const out = document.getElementById('out');
    form.addEventListener('submit', async (e) => {
      e.preventDefault();
      out.hidden = false;
      out.textContent = 'Processing...';
      const resp = await fetch('/api/v1/batches', { method: 'POST', body: new FormData(form) });
      const body = await resp.json();
      if (!resp.ok || !body.success) {
        out.textContent = 'Error: ' + (body.error ? body.error.message : resp.status);
        return;
      }
      const s = body.data;
      out.innerHTML = 'Processed ' + s.succeeded + '/' + s.requested + ' files. ' +
        '<a href="/api/v1/workbooks/' + s.workbook_id + '">Download workbook</a>';
    });
  </script>
</body>
</html>`

// Index handles GET / with the upload form.
func Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexPage))
}
