package web

// viewerPage is the minimal built-in viewer: renders the frame feed into
// an <img> and the latest landmark event next to it.
const viewerPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Posecam</title>
<style>
  body { font-family: monospace; background: #111; color: #ddd; margin: 1rem; }
  #frame { border: 1px solid #444; max-width: 100%; }
  #pose { white-space: pre; font-size: 12px; }
  .row { display: flex; gap: 1rem; flex-wrap: wrap; }
</style>
</head>
<body>
<h3>posecam</h3>
<div class="row">
  <img id="frame" alt="waiting for frames...">
  <div id="pose">waiting for pose feed...</div>
</div>
<script>
  const proto = location.protocol === "https:" ? "wss" : "ws";
  const base = proto + "://" + location.host;

  const frames = new WebSocket(base + "/ws/frames");
  frames.binaryType = "blob";
  let lastURL = null;
  frames.onmessage = (ev) => {
    const url = URL.createObjectURL(ev.data);
    document.getElementById("frame").src = url;
    if (lastURL) URL.revokeObjectURL(lastURL);
    lastURL = url;
  };

  const poses = new WebSocket(base + "/ws/pose");
  poses.onmessage = (ev) => {
    document.getElementById("pose").textContent =
      JSON.stringify(JSON.parse(ev.data), null, 1);
  };
</script>
</body>
</html>
`
