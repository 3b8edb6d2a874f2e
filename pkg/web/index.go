package web

// indexHTML is the built-in viewer. Kept inline so the preview works
// from a bare binary with no asset directory.
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Ash Preview</title>
<style>
  body { background: #16161e; color: #c8c8d4; font-family: monospace; margin: 2rem; }
  h1 { font-size: 1.2rem; color: #7fd4ff; }
  #face { width: 480px; height: 320px; background: #000; border: 1px solid #333; image-rendering: pixelated; }
  #state { margin-top: 1rem; white-space: pre; }
  .row { display: flex; gap: 2rem; align-items: flex-start; }
  #conversation { max-width: 40rem; }
  #conversation div { margin: 0.2rem 0; }
  .user { color: #ffd27f; }
  .ash { color: #8fef9f; }
</style>
</head>
<body>
<h1>Ash Preview</h1>
<div class="row">
  <div>
    <img id="face" alt="face">
    <div id="state">connecting...</div>
  </div>
  <div id="conversation"></div>
</div>
<script>
  const face = document.getElementById("face");
  const state = document.getElementById("state");
  const conversation = document.getElementById("conversation");

  const frames = new WebSocket("ws://" + location.host + "/ws/frames");
  frames.binaryType = "blob";
  frames.onmessage = (ev) => {
    const url = URL.createObjectURL(ev.data);
    face.onload = () => URL.revokeObjectURL(url);
    face.src = url;
  };

  const status = new WebSocket("ws://" + location.host + "/ws/status");
  status.onmessage = (ev) => {
    const s = JSON.parse(ev.data);
    state.textContent =
      "backend:    " + s.backend + "\n" +
      "expression: " + s.expression + "\n" +
      "input:      " + s.input_mode + "\n" +
      "listening:  " + s.listening + "\n" +
      "speaking:   " + s.speaking + "\n" +
      "arms:       L" + s.left_arm + "° R" + s.right_arm + "°" +
      (s.servos_simulated ? " (simulated)" : "");
  };
  status.onclose = () => { state.textContent = "disconnected"; };

  async function refreshConversation() {
    try {
      const resp = await fetch("/api/conversation");
      const lines = await resp.json();
      conversation.innerHTML = "";
      for (const line of lines) {
        const div = document.createElement("div");
        div.className = line.role;
        div.textContent = line.time + " " + line.role + ": " + line.text;
        conversation.appendChild(div);
      }
    } catch (e) { /* server going away is fine */ }
  }
  refreshConversation();
  setInterval(refreshConversation, 2000);
</script>
</body>
</html>
`
