package bridge

// builtinModules holds the Lua source for every interpreted-tier algorithm,
// keyed by the algorithm name it registers as a global function. Each
// function takes (data, params) and returns a single table.
var builtinModules = map[string]string{
	"kmeans": `
function kmeans(data, params)
  local k = math.floor(tonumber(params.k) or 2)
  local max_iter = math.floor(tonumber(params.max_iterations) or 100)
  if k < 1 then k = 1 end

  local n = #data
  local centroids = {}
  for i = 1, k do
    centroids[i] = data[1 + ((i - 1) * math.floor(n / k)) % n]
  end

  local assignments = {}
  local iterations = 0

  for iter = 1, max_iter do
    iterations = iter
    local changed = false
    for i = 1, n do
      local best, bestDist = 1, math.huge
      for c = 1, k do
        local d = math.abs(data[i] - centroids[c])
        if d < bestDist then
          bestDist = d
          best = c
        end
      end
      if assignments[i] ~= best then
        changed = true
      end
      assignments[i] = best
    end

    local sums, counts = {}, {}
    for c = 1, k do sums[c] = 0; counts[c] = 0 end
    for i = 1, n do
      local c = assignments[i]
      sums[c] = sums[c] + data[i]
      counts[c] = counts[c] + 1
    end
    for c = 1, k do
      if counts[c] > 0 then
        centroids[c] = sums[c] / counts[c]
      end
    end

    if not changed and iter > 1 then
      break
    end
  end

  return { centroids = centroids, assignments = assignments, iterations = iterations }
end
`,
	"linear_trend": `
function linear_trend(data, params)
  local n = #data
  local sumX, sumY, sumXY, sumXX = 0, 0, 0, 0
  for i = 1, n do
    local x = i - 1
    local y = data[i]
    sumX = sumX + x
    sumY = sumY + y
    sumXY = sumXY + x * y
    sumXX = sumXX + x * x
  end

  local denom = n * sumXX - sumX * sumX
  local slope = 0
  if denom ~= 0 then
    slope = (n * sumXY - sumX * sumY) / denom
  end
  local intercept = (sumY - slope * sumX) / n

  local meanY = sumY / n
  local ssTot, ssRes = 0, 0
  for i = 1, n do
    local x = i - 1
    local yHat = slope * x + intercept
    ssTot = ssTot + (data[i] - meanY) * (data[i] - meanY)
    ssRes = ssRes + (data[i] - yHat) * (data[i] - yHat)
  end
  local rSquared = 1
  if ssTot ~= 0 then
    rSquared = 1 - (ssRes / ssTot)
  end

  return { slope = slope, intercept = intercept, r_squared = rSquared }
end
`,
}
