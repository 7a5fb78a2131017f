package handlers

import "net/http"

const homePage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Told with Love</title>
  <style>
    body {
      font-family: Georgia, 'Times New Roman', serif;
      background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
      margin: 0;
      min-height: 100vh;
      display: flex;
      align-items: center;
      justify-content: center;
    }
    .card {
      max-width: 560px;
      background: #fffdf9;
      border-radius: 12px;
      padding: 3rem;
      text-align: center;
      box-shadow: 0 10px 40px rgba(0, 0, 0, 0.25);
    }
    h1 { color: #764ba2; }
    p { color: #555; line-height: 1.7; }
  </style>
</head>
<body>
  <div class="card">
    <h1>Told with Love</h1>
    <p>Personalized stories, poems, and letters crafted from your answers.
    Fill out the form and your story arrives in moments.</p>
  </div>
</body>
</html>
`

// HomeHandler serves the landing page.
func HomeHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(homePage))
}
